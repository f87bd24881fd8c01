package paycode

import (
	"context"
	"strings"
	"testing"

	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/paycode"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/timeentry"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/user"
	"github.com/qhamayedwa/altron-wfm-backend/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memPayCodeRepo struct {
	codes map[string]paycode.PayCode
}

func (r *memPayCodeRepo) Create(ctx context.Context, c paycode.PayCode) (paycode.PayCode, error) {
	r.codes[c.ID] = c
	return c, nil
}

func (r *memPayCodeRepo) GetByID(ctx context.Context, id string) (paycode.PayCode, error) {
	c, ok := r.codes[id]
	if !ok {
		return paycode.PayCode{}, paycode.ErrPayCodeNotFound
	}
	return c, nil
}

func (r *memPayCodeRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	for _, c := range r.codes {
		if c.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *memPayCodeRepo) List(ctx context.Context, f paycode.PayCodeFilter) ([]paycode.PayCode, int64, error) {
	var out []paycode.PayCode
	for _, c := range r.codes {
		if f.Type == "absence" && !c.IsAbsenceCode {
			continue
		}
		if f.Status == "active" && !c.IsActive {
			continue
		}
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (r *memPayCodeRepo) Update(ctx context.Context, c paycode.PayCode) error {
	r.codes[c.ID] = c
	return nil
}

func (r *memPayCodeRepo) Delete(ctx context.Context, id string) error {
	delete(r.codes, id)
	return nil
}

type usageRepo struct {
	timeentry.TimeEntryRepository
	usage map[string]int64
}

func (r *usageRepo) CountByPayCode(ctx context.Context, id string) (int64, error) {
	return r.usage[id], nil
}

func newTestService() (*PayCodeServiceImpl, *memPayCodeRepo, *usageRepo) {
	codes := &memPayCodeRepo{codes: map[string]paycode.PayCode{}}
	usage := &usageRepo{usage: map[string]int64{}}
	return NewPayCodeService(codes, usage).(*PayCodeServiceImpl), codes, usage
}

var admin = user.Actor{ID: "u-admin", Role: user.RoleAdmin}

func TestCreate_UppercasesAndRejectsDuplicates(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, admin, paycode.CreatePayCodeRequest{Code: " sick ", Description: "Sick leave", IsAbsenceCode: true})
	require.NoError(t, err)
	assert.Equal(t, "SICK", created.Code)
	assert.True(t, created.IsActive)
	assert.Equal(t, "u-admin", created.CreatedByID)

	_, err = svc.Create(ctx, admin, paycode.CreatePayCodeRequest{Code: "Sick", Description: "Again"})
	assert.ErrorIs(t, err, paycode.ErrPayCodeCodeExists)
}

func TestCreate_Validation(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Create(context.Background(), admin, paycode.CreatePayCodeRequest{Code: "BAD CODE", Description: ""})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)
}

func TestDelete_GuardedByUsage(t *testing.T) {
	svc, codes, usage := newTestService()
	codes.codes["p1"] = paycode.PayCode{ID: "p1", Code: "OT"}
	usage.usage["p1"] = 3

	err := svc.Delete(context.Background(), "p1")
	assert.ErrorIs(t, err, paycode.ErrPayCodeInUse)
	assert.True(t, strings.Contains(err.Error(), "3 entries"))

	usage.usage["p1"] = 0
	require.NoError(t, svc.Delete(context.Background(), "p1"))
	assert.Empty(t, codes.codes)
}

func TestGetByID_IncludesUsage(t *testing.T) {
	svc, codes, usage := newTestService()
	codes.codes["p1"] = paycode.PayCode{ID: "p1", Code: "OT"}
	usage.usage["p1"] = 7

	resp, err := svc.GetByID(context.Background(), "p1")
	require.NoError(t, err)
	require.NotNil(t, resp.UsageCount)
	assert.Equal(t, int64(7), *resp.UsageCount)

	_, err = svc.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, paycode.ErrPayCodeNotFound)
}

func TestToggleAndAbsenceCodes(t *testing.T) {
	svc, codes, _ := newTestService()
	days := 5
	codes.codes["a"] = paycode.PayCode{ID: "a", Code: "ANNUAL", IsAbsenceCode: true, IsActive: true,
		Configuration: &paycode.Configuration{IsPaid: true, MaxConsecutiveDays: &days}}
	codes.codes["b"] = paycode.PayCode{ID: "b", Code: "NORMAL", IsActive: true}

	absence, err := svc.ListAbsenceCodes(context.Background())
	require.NoError(t, err)
	require.Len(t, absence, 1)
	assert.True(t, absence[0].IsPaid)
	assert.Equal(t, 5, *absence[0].MaxConsecutiveDays)

	toggled, err := svc.Toggle(context.Background(), "a")
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	absence, err = svc.ListAbsenceCodes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, absence)
}
