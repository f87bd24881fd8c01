package paycode

import (
	"context"

	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/user"
)

type PayCodeService interface {
	List(ctx context.Context, filter PayCodeFilter) (ListPayCodeResponse, error)
	GetByID(ctx context.Context, id string) (PayCodeResponse, error)
	Create(ctx context.Context, actor user.Actor, req CreatePayCodeRequest) (PayCodeResponse, error)
	Update(ctx context.Context, req UpdatePayCodeRequest) (PayCodeResponse, error)
	Delete(ctx context.Context, id string) error
	Toggle(ctx context.Context, id string) (PayCodeResponse, error)
	ListAbsenceCodes(ctx context.Context) ([]AbsenceCodeResponse, error)
}
