package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/qhamayedwa/altron-wfm-backend/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

// openTestDB connects to TEST_DATABASE_URL, recreates the schema from the
// migrations directory and closes the pool when the test ends.
func openTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{MaxConns: 4, MinConns: 1})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, resetSchema(ctx, db))
	return db
}

func resetSchema(ctx context.Context, db *database.DB) error {
	_, file, _, _ := runtime.Caller(0)
	migration, err := os.ReadFile(filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "migrations", "001_init.sql"))
	if err != nil {
		return fmt.Errorf("failed to read migration: %w", err)
	}

	if _, err := db.Exec(ctx, `DROP SCHEMA public CASCADE; CREATE SCHEMA public;`); err != nil {
		return fmt.Errorf("failed to reset schema: %w", err)
	}
	if _, err := db.Exec(ctx, string(migration)); err != nil {
		return fmt.Errorf("failed to apply migration: %w", err)
	}
	return nil
}

const (
	deptA   = "0190a000-0000-7000-8000-00000000000a"
	empOne  = "0190a000-0000-7000-8000-000000000001"
	empTwo  = "0190a000-0000-7000-8000-000000000002"
	manager = "0190a000-0000-7000-8000-000000000009"
)

// seedEmployees creates one department managed by manager with empOne in it
// and empTwo outside any department.
func seedEmployees(t *testing.T, db *database.DB) {
	t.Helper()
	ctx := context.Background()

	_, err := db.Exec(ctx, `
		INSERT INTO departments (id, name) VALUES ($1, 'Operations');
	`, deptA)
	require.NoError(t, err)

	_, err = db.Exec(ctx, `
		INSERT INTO employees (id, full_name, email, department_id, is_active) VALUES
			($1, 'Thandi Nkosi', 'thandi@example.com', $4, true),
			($2, 'Pieter Botha', 'pieter@example.com', NULL, true),
			($3, 'Lerato Dlamini', 'lerato@example.com', NULL, true)
	`, empOne, empTwo, manager, deptA)
	require.NoError(t, err)

	_, err = db.Exec(ctx, `UPDATE departments SET manager_id = $2 WHERE id = $1`, deptA, manager)
	require.NoError(t, err)

	_, err = db.Exec(ctx, `
		INSERT INTO employee_roles (employee_id, role_name) VALUES ($1, 'Employee'), ($2, 'Manager'), ($2, 'Employee')
	`, empOne, manager)
	require.NoError(t, err)
}
