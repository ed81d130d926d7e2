package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tallyworks/payroll-backend-go/internal/pkg/database"
)

var (
	testDB     *database.DB
	testDBOnce sync.Once
)

// requireTestDB connects once per run and skips when no test database
// is configured, so the unit suite stays runnable without Postgres.
func requireTestDB(t *testing.T) *database.DB {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	testDBOnce.Do(func() {
		var err error
		testDB, err = database.NewPostgreSQLDB(dsn)
		if err != nil {
			panic("Failed to connect to test database: " + err.Error())
		}
	})
	return testDB
}

func truncateTables(t *testing.T, ctx context.Context, tables ...string) {
	for _, table := range tables {
		_, err := testDB.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err)
	}
}

func createTestEmployee(t *testing.T, ctx context.Context, baseSalaryCents int64) string {
	id := uuid.NewString()
	code := fmt.Sprintf("EMP-%d", time.Now().UnixNano())
	_, err := testDB.Exec(ctx, `
		INSERT INTO employees (id, name, code, base_salary_cents, active, hired_at)
		VALUES ($1, 'Test Employee', $2, $3, true, '2024-01-01')
	`, id, code, baseSalaryCents)
	require.NoError(t, err)
	return id
}
