package postgresql_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql/migrations"
	"github.com/stretchr/testify/require"
)

var wib = time.FixedZone("WIB", 7*60*60)

// newTestDB connects to TEST_DATABASE_URL, migrates and truncates. Tests skip without it.
func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn, 5)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, migrations.Run(ctx, db.Pool))

	_, err = db.Exec(ctx, "TRUNCATE TABLE attendances, users CASCADE")
	require.NoError(t, err)

	return db
}

func createTestUser(t *testing.T, repo user.UserRepository, name, email, department string, role user.Role) user.User {
	t.Helper()

	u, err := repo.Create(context.Background(), user.User{
		Name:         name,
		Email:        email,
		PasswordHash: "hash",
		Role:         role,
		Department:   department,
	})
	require.NoError(t, err)
	return u
}
