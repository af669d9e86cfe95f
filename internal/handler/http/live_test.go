package http

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nextEvent reads one SSE frame and returns its event name and data line
func nextEvent(t *testing.T, r *bufio.Reader) (string, string) {
	t.Helper()
	var event, data string
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		case line == "" && event != "":
			return event, data
		}
	}
}

func TestLiveHandler_Stream(t *testing.T) {
	ts := newTestServer(t)
	ada := ts.register(t, "ada", "")
	boss := ts.register(t, "boss", "manager")

	srv := httptest.NewServer(ts.router)
	defer srv.Close()

	rec := ts.do(http.MethodGet, "/api/auth/stream-token", boss.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stream auth.StreamTokenResponse
	decode(t, rec, &stream)
	require.NotEmpty(t, stream.Token)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/attendance/live?token="+stream.Token, nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	event, _ := nextEvent(t, reader)
	require.Equal(t, "connected", event)

	require.Equal(t, http.StatusOK, ts.do(http.MethodPost, "/api/attendance/checkin", ada.Token, nil).Code)

	event, data := nextEvent(t, reader)
	assert.Equal(t, "checkin", event)

	var record attendance.AttendanceResponse
	require.NoError(t, json.Unmarshal([]byte(data), &record))
	assert.Equal(t, ada.User.ID, record.UserID)
	require.NotNil(t, record.Employee)
	assert.Equal(t, "EMP001", record.Employee.EmployeeID)
}

func TestLiveHandler_Rejections(t *testing.T) {
	ts := newTestServer(t)
	ada := ts.register(t, "ada", "")

	// employee stream token
	rec := ts.do(http.MethodGet, "/api/auth/stream-token", ada.Token, nil)
	var stream auth.StreamTokenResponse
	decode(t, rec, &stream)

	assert.Equal(t, http.StatusForbidden, ts.do(http.MethodGet, "/api/attendance/live?token="+stream.Token, "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, ts.do(http.MethodGet, "/api/attendance/live?token="+ada.Token, "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, ts.do(http.MethodGet, "/api/attendance/live", "", nil).Code)
}
