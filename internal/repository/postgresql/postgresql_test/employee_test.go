package postgresql_test

import (
	"context"
	"testing"

	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/employee"
	"github.com/qhamayedwa/altron-wfm-backend/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmployeeRepository(t *testing.T) {
	db := openTestDB(t)
	seedEmployees(t, db)
	repo := postgresql.NewEmployeeRepository(db)
	ctx := context.Background()

	emp, err := repo.GetByID(ctx, empOne)
	require.NoError(t, err)
	assert.Equal(t, "Thandi Nkosi", emp.FullName)
	require.NotNil(t, emp.DepartmentID)
	assert.Equal(t, deptA, *emp.DepartmentID)

	_, err = repo.GetByID(ctx, "0190a000-0000-7000-8000-0000000000ff")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	managed, err := repo.ManagedDepartmentIDs(ctx, manager)
	require.NoError(t, err)
	assert.Equal(t, []string{deptA}, managed)

	managers, err := repo.DepartmentManagerIDs(ctx, deptA)
	require.NoError(t, err)
	assert.Equal(t, []string{manager}, managers)

	roles, err := repo.GetRoleNames(ctx, []string{empOne, manager, empTwo})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Employee", "Manager"}, roles[manager])
	assert.Empty(t, roles[empTwo])
}
