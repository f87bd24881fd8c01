package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/leave"
	"github.com/qhamayedwa/altron-wfm-backend/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const annualType = "0190a000-0000-7000-8000-0000000000a1"

func leaveDay(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestLeaveApplicationRepository_RejectsOverlapOnInsert(t *testing.T) {
	db := openTestDB(t)
	seedEmployees(t, db)
	ctx := context.Background()

	_, err := db.Exec(ctx, `INSERT INTO leave_types (id, name) VALUES ($1, 'Annual')`, annualType)
	require.NoError(t, err)

	repo := postgresql.NewLeaveApplicationRepository(db)
	newApp := func(id, employeeID, start, end string) leave.LeaveApplication {
		return leave.LeaveApplication{
			ID:          id,
			EmployeeID:  employeeID,
			LeaveTypeID: annualType,
			StartDate:   leaveDay(start),
			EndDate:     leaveDay(end),
			Status:      leave.StatusPending,
		}
	}

	first, err := repo.Create(ctx, newApp("0190a000-0000-7000-8000-0000000000b1", empOne, "2025-03-10", "2025-03-14"))
	require.NoError(t, err)

	// Shares the boundary day
	_, err = repo.Create(ctx, newApp("0190a000-0000-7000-8000-0000000000b2", empOne, "2025-03-14", "2025-03-18"))
	assert.ErrorIs(t, err, leave.ErrOverlappingApplication)

	_, err = repo.Create(ctx, newApp("0190a000-0000-7000-8000-0000000000b3", empTwo, "2025-03-10", "2025-03-14"))
	assert.NoError(t, err)

	first.Status = leave.StatusCancelled
	require.NoError(t, repo.Update(ctx, first))

	_, err = repo.Create(ctx, newApp("0190a000-0000-7000-8000-0000000000b4", empOne, "2025-03-14", "2025-03-18"))
	assert.NoError(t, err)
}
