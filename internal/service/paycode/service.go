package paycode

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/paycode"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/timeentry"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/user"
)

type PayCodeServiceImpl struct {
	payCodeRepo paycode.PayCodeRepository
	timeRepo    timeentry.TimeEntryRepository
}

func NewPayCodeService(payCodeRepo paycode.PayCodeRepository, timeRepo timeentry.TimeEntryRepository) paycode.PayCodeService {
	return &PayCodeServiceImpl{
		payCodeRepo: payCodeRepo,
		timeRepo:    timeRepo,
	}
}

func (s *PayCodeServiceImpl) List(ctx context.Context, filter paycode.PayCodeFilter) (paycode.ListPayCodeResponse, error) {
	if err := filter.Validate(); err != nil {
		return paycode.ListPayCodeResponse{}, err
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}

	codes, total, err := s.payCodeRepo.List(ctx, filter)
	if err != nil {
		return paycode.ListPayCodeResponse{}, err
	}

	responses := make([]paycode.PayCodeResponse, len(codes))
	for i, c := range codes {
		responses[i] = paycode.NewPayCodeResponse(c)
	}

	return paycode.ListPayCodeResponse{
		PayCodes:   responses,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

// GetByID includes how many time entries reference the code
func (s *PayCodeServiceImpl) GetByID(ctx context.Context, id string) (paycode.PayCodeResponse, error) {
	code, err := s.payCodeRepo.GetByID(ctx, id)
	if err != nil {
		return paycode.PayCodeResponse{}, err
	}

	usage, err := s.timeRepo.CountByPayCode(ctx, id)
	if err != nil {
		return paycode.PayCodeResponse{}, fmt.Errorf("failed to count pay code usage: %w", err)
	}

	resp := paycode.NewPayCodeResponse(code)
	resp.UsageCount = &usage
	return resp, nil
}

func (s *PayCodeServiceImpl) Create(ctx context.Context, actor user.Actor, req paycode.CreatePayCodeRequest) (paycode.PayCodeResponse, error) {
	if err := req.Validate(); err != nil {
		return paycode.PayCodeResponse{}, err
	}

	exists, err := s.payCodeRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return paycode.PayCodeResponse{}, err
	}
	if exists {
		return paycode.PayCodeResponse{}, paycode.ErrPayCodeCodeExists
	}

	id, err := uuid.NewV7()
	if err != nil {
		return paycode.PayCodeResponse{}, fmt.Errorf("failed to generate pay code id: %w", err)
	}

	created, err := s.payCodeRepo.Create(ctx, paycode.PayCode{
		ID:            id.String(),
		Code:          req.Code,
		Description:   req.Description,
		IsAbsenceCode: req.IsAbsenceCode,
		IsActive:      true,
		Configuration: req.Configuration,
		CreatedByID:   actor.ID,
	})
	if err != nil {
		return paycode.PayCodeResponse{}, err
	}

	slog.Info("pay code created", "pay_code_id", created.ID, "code", created.Code)
	return paycode.NewPayCodeResponse(created), nil
}

func (s *PayCodeServiceImpl) Update(ctx context.Context, req paycode.UpdatePayCodeRequest) (paycode.PayCodeResponse, error) {
	if err := req.Validate(); err != nil {
		return paycode.PayCodeResponse{}, err
	}

	code, err := s.payCodeRepo.GetByID(ctx, req.ID)
	if err != nil {
		return paycode.PayCodeResponse{}, err
	}

	if req.Description != nil {
		code.Description = *req.Description
	}
	if req.IsActive != nil {
		code.IsActive = *req.IsActive
	}
	if req.Configuration != nil {
		code.Configuration = req.Configuration
	}

	if err := s.payCodeRepo.Update(ctx, code); err != nil {
		return paycode.PayCodeResponse{}, err
	}
	return paycode.NewPayCodeResponse(code), nil
}

func (s *PayCodeServiceImpl) Delete(ctx context.Context, id string) error {
	if _, err := s.payCodeRepo.GetByID(ctx, id); err != nil {
		return err
	}

	usage, err := s.timeRepo.CountByPayCode(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count pay code usage: %w", err)
	}
	if usage > 0 {
		return fmt.Errorf("%w (%d entries)", paycode.ErrPayCodeInUse, usage)
	}

	return s.payCodeRepo.Delete(ctx, id)
}

func (s *PayCodeServiceImpl) Toggle(ctx context.Context, id string) (paycode.PayCodeResponse, error) {
	code, err := s.payCodeRepo.GetByID(ctx, id)
	if err != nil {
		return paycode.PayCodeResponse{}, err
	}

	code.IsActive = !code.IsActive
	if err := s.payCodeRepo.Update(ctx, code); err != nil {
		return paycode.PayCodeResponse{}, err
	}
	return paycode.NewPayCodeResponse(code), nil
}

// ListAbsenceCodes returns active absence codes ordered by code
func (s *PayCodeServiceImpl) ListAbsenceCodes(ctx context.Context) ([]paycode.AbsenceCodeResponse, error) {
	codes, _, err := s.payCodeRepo.List(ctx, paycode.PayCodeFilter{Type: "absence", Status: "active"})
	if err != nil {
		return nil, err
	}

	out := make([]paycode.AbsenceCodeResponse, 0, len(codes))
	for _, c := range codes {
		resp := paycode.AbsenceCodeResponse{
			ID:          c.ID,
			Code:        c.Code,
			Description: c.Description,
		}
		if c.Configuration != nil {
			resp.IsPaid = c.Configuration.IsPaid
			resp.RequiresApproval = c.Configuration.RequiresApproval
			resp.MaxHoursPerDay = c.Configuration.MaxHoursPerDay
			resp.MaxConsecutiveDays = c.Configuration.MaxConsecutiveDays
		}
		out = append(out, resp)
	}
	return out, nil
}
