package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"already checked in", attendance.ErrAlreadyCheckedIn, http.StatusBadRequest, "Already checked in today"},
		{"not checked in", fmt.Errorf("checkout: %w", attendance.ErrNotCheckedIn), http.StatusBadRequest, "You need to check in first"},
		{"already checked out", attendance.ErrAlreadyCheckedOut, http.StatusBadRequest, "Already checked out today"},
		{"invalid credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
		{"user not found", user.ErrUserNotFound, http.StatusNotFound, "User not found"},
		{"duplicate email", user.ErrUserEmailExists, http.StatusConflict, "User already exists"},
		{"manager only", user.ErrManagerAccessRequired, http.StatusForbidden, "Manager access required"},
		{"store down", fmt.Errorf("%w: dial tcp: refused", database.ErrStoreUnavailable), http.StatusInternalServerError, "Server error"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "Server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)

			var body Response
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.message, body.Message)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.message, body.Error.Message)
		})
	}
}

func TestHandleError_Validation(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, validator.ValidationErrors{{Field: "month", Message: "must be between 1 and 12"}})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Equal(t, map[string]string{"month": "must be between 1 and 12"}, body.Error.Details)
}

func TestAttachment(t *testing.T) {
	rec := httptest.NewRecorder()
	Attachment(rec, "attendance-report.csv", "text/csv", []byte("Date\n"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="attendance-report.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "Date\n", rec.Body.String())
}
