package paycode

import "context"

type PayCodeRepository interface {
	Create(ctx context.Context, code PayCode) (PayCode, error)
	GetByID(ctx context.Context, id string) (PayCode, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	List(ctx context.Context, filter PayCodeFilter) ([]PayCode, int64, error)
	Update(ctx context.Context, code PayCode) error
	Delete(ctx context.Context, id string) error
}
