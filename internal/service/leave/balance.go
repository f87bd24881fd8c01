package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/leave"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/user"
	"github.com/shopspring/decimal"
)

var monthsPerYear = decimal.NewFromInt(12)

func (s *LeaveServiceImpl) MyBalances(ctx context.Context, actor user.Actor, year int) (leave.MyBalancesResponse, error) {
	if year <= 0 {
		year = s.currentYear()
	}

	balances, err := s.balanceRepo.List(ctx, leave.BalanceFilter{EmployeeID: &actor.ID, Year: year})
	if err != nil {
		return leave.MyBalancesResponse{}, err
	}
	types, err := s.ListTypes(ctx, false)
	if err != nil {
		return leave.MyBalancesResponse{}, err
	}

	responses := make([]leave.LeaveBalanceResponse, len(balances))
	for i, b := range balances {
		responses[i] = leave.NewLeaveBalanceResponse(b)
	}
	return leave.MyBalancesResponse{
		Balances:    responses,
		LeaveTypes:  types,
		CurrentYear: year,
	}, nil
}

func (s *LeaveServiceImpl) ListBalances(ctx context.Context, filter leave.BalanceFilter) ([]leave.LeaveBalanceResponse, error) {
	if filter.Year <= 0 {
		filter.Year = s.currentYear()
	}

	balances, err := s.balanceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]leave.LeaveBalanceResponse, len(balances))
	for i, b := range balances {
		responses[i] = leave.NewLeaveBalanceResponse(b)
	}
	return responses, nil
}

// AdjustBalance overwrites the balance. A raise also counts as accrued.
func (s *LeaveServiceImpl) AdjustBalance(ctx context.Context, actor user.Actor, req leave.AdjustBalanceRequest) (leave.LeaveBalanceResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveBalanceResponse{}, err
	}

	var (
		balance leave.LeaveBalance
		delta   decimal.Decimal
	)
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		balance, err = s.balanceRepo.GetByIDForUpdate(ctx, req.BalanceID)
		if err != nil {
			return err
		}

		delta = req.NewBalance.Sub(balance.Balance)
		balance.Balance = *req.NewBalance
		if delta.IsPositive() {
			balance.AccruedThisYear = balance.AccruedThisYear.Add(delta)
		}
		return s.balanceRepo.Update(ctx, balance)
	})
	if err != nil {
		return leave.LeaveBalanceResponse{}, err
	}

	reason := ""
	if req.Reason != nil {
		reason = *req.Reason
	}
	slog.Info("leave balance adjusted",
		"balance_id", balance.ID,
		"employee_id", balance.EmployeeID,
		"delta", delta.String(),
		"adjusted_by", actor.ID,
		"reason", reason,
	)
	return leave.NewLeaveBalanceResponse(balance), nil
}

// RunAccrual credits one month of each accruing leave type to every active
// employee. Balances already credited in now's month are skipped, so repeated
// runs within a month change nothing.
func (s *LeaveServiceImpl) RunAccrual(ctx context.Context, now time.Time) (leave.AccrualResult, error) {
	local := now.In(s.loc)
	stamp := now.UTC()
	result := leave.AccrualResult{AccrualDate: stamp}

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		employees, err := s.employeeRepo.GetActive(ctx)
		if err != nil {
			return fmt.Errorf("failed to get active employees: %w", err)
		}
		types, err := s.typeRepo.ListAccruing(ctx)
		if err != nil {
			return fmt.Errorf("failed to get accruing leave types: %w", err)
		}

		for _, emp := range employees {
			for _, t := range types {
				if t.DefaultAccrualRate == nil {
					continue
				}
				balance, err := s.balanceRepo.FindForUpdate(ctx, emp.ID, t.ID, local.Year())
				if errors.Is(err, leave.ErrLeaveBalanceNotFound) {
					balance, err = s.createBalance(ctx, emp.ID, t.ID, local.Year())
					result.BalancesCreated++
				}
				if err != nil {
					return err
				}

				if !balance.AccrualDue(local) {
					result.BalancesSkipped++
					continue
				}

				monthly := t.DefaultAccrualRate.Div(monthsPerYear).Round(4)
				balance.Balance = balance.Balance.Add(monthly)
				balance.AccruedThisYear = balance.AccruedThisYear.Add(monthly)
				balance.LastAccrualDate = &stamp
				if err := s.balanceRepo.Update(ctx, balance); err != nil {
					return fmt.Errorf("failed to accrue balance %s: %w", balance.ID, err)
				}
				result.BalancesAccrued++
			}
		}
		result.EmployeesProcessed = len(employees)
		return nil
	})
	if err != nil {
		return leave.AccrualResult{}, err
	}

	slog.Info("leave accrual completed",
		"employees", result.EmployeesProcessed,
		"accrued", result.BalancesAccrued,
		"skipped", result.BalancesSkipped,
		"created", result.BalancesCreated,
	)
	return result, nil
}

func (s *LeaveServiceImpl) createBalance(ctx context.Context, employeeID, leaveTypeID string, year int) (leave.LeaveBalance, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return leave.LeaveBalance{}, fmt.Errorf("failed to generate balance id: %w", err)
	}
	return s.balanceRepo.Create(ctx, leave.LeaveBalance{
		ID:          id.String(),
		EmployeeID:  employeeID,
		LeaveTypeID: leaveTypeID,
		Year:        year,
	})
}
