package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/paycode"
	"github.com/qhamayedwa/altron-wfm-backend/internal/pkg/database"
)

type payCodeRepositoryImpl struct {
	db *database.DB
}

func NewPayCodeRepository(db *database.DB) paycode.PayCodeRepository {
	return &payCodeRepositoryImpl{db: db}
}

const payCodeSelect = `
	SELECT id, code, description, is_absence_code, is_active, configuration,
		   COALESCE(created_by_id::text, ''), created_at, updated_at
	FROM pay_codes
`

func scanPayCode(row pgx.Row) (paycode.PayCode, error) {
	var c paycode.PayCode
	var config []byte
	if err := row.Scan(&c.ID, &c.Code, &c.Description, &c.IsAbsenceCode, &c.IsActive, &config, &c.CreatedByID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return paycode.PayCode{}, err
	}
	if config != nil {
		c.Configuration = &paycode.Configuration{}
		if err := json.Unmarshal(config, c.Configuration); err != nil {
			return paycode.PayCode{}, fmt.Errorf("failed to decode pay code configuration: %w", err)
		}
	}
	return c, nil
}

func marshalConfiguration(c *paycode.Configuration) ([]byte, error) {
	if c == nil {
		return nil, nil
	}
	return json.Marshal(c)
}

// Create implements paycode.PayCodeRepository.
func (r *payCodeRepositoryImpl) Create(ctx context.Context, code paycode.PayCode) (paycode.PayCode, error) {
	q := GetQuerier(ctx, r.db)

	config, err := marshalConfiguration(code.Configuration)
	if err != nil {
		return paycode.PayCode{}, fmt.Errorf("failed to encode pay code configuration: %w", err)
	}

	var createdBy *string
	if code.CreatedByID != "" {
		createdBy = &code.CreatedByID
	}

	query := `
		INSERT INTO pay_codes (id, code, description, is_absence_code, is_active, configuration, created_by_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err = q.QueryRow(ctx, query,
		code.ID, code.Code, code.Description, code.IsAbsenceCode, code.IsActive, config, createdBy,
	).Scan(&code.CreatedAt, &code.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return paycode.PayCode{}, paycode.ErrPayCodeCodeExists
		}
		return paycode.PayCode{}, fmt.Errorf("failed to create pay code: %w", err)
	}
	return code, nil
}

// GetByID implements paycode.PayCodeRepository.
func (r *payCodeRepositoryImpl) GetByID(ctx context.Context, id string) (paycode.PayCode, error) {
	q := GetQuerier(ctx, r.db)

	c, err := scanPayCode(q.QueryRow(ctx, payCodeSelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return paycode.PayCode{}, paycode.ErrPayCodeNotFound
		}
		return paycode.PayCode{}, fmt.Errorf("failed to get pay code: %w", err)
	}
	return c, nil
}

// ExistsByCode implements paycode.PayCodeRepository.
func (r *payCodeRepositoryImpl) ExistsByCode(ctx context.Context, code string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM pay_codes WHERE code = $1)`, code).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check pay code: %w", err)
	}
	return exists, nil
}

// List implements paycode.PayCodeRepository.
func (r *payCodeRepositoryImpl) List(ctx context.Context, filter paycode.PayCodeFilter) ([]paycode.PayCode, int64, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	switch filter.Type {
	case "absence":
		conditions = append(conditions, "is_absence_code")
	case "payroll":
		conditions = append(conditions, "NOT is_absence_code")
	}
	switch filter.Status {
	case "active":
		conditions = append(conditions, "is_active")
	case "inactive":
		conditions = append(conditions, "NOT is_active")
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM pay_codes`+where).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count pay codes: %w", err)
	}

	query := payCodeSelect + where + ` ORDER BY code`
	var args []interface{}
	if filter.Limit > 0 {
		query += ` LIMIT $1 OFFSET $2`
		args = append(args, filter.Limit, (max(filter.Page, 1)-1)*filter.Limit)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list pay codes: %w", err)
	}
	defer rows.Close()

	var codes []paycode.PayCode
	for rows.Next() {
		c, err := scanPayCode(rows)
		if err != nil {
			return nil, 0, err
		}
		codes = append(codes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return codes, total, nil
}

// Update implements paycode.PayCodeRepository.
func (r *payCodeRepositoryImpl) Update(ctx context.Context, code paycode.PayCode) error {
	q := GetQuerier(ctx, r.db)

	config, err := marshalConfiguration(code.Configuration)
	if err != nil {
		return fmt.Errorf("failed to encode pay code configuration: %w", err)
	}

	tag, err := q.Exec(ctx, `
		UPDATE pay_codes SET description = $2, is_active = $3, configuration = $4, updated_at = NOW()
		WHERE id = $1
	`, code.ID, code.Description, code.IsActive, config)
	if err != nil {
		return fmt.Errorf("failed to update pay code: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return paycode.ErrPayCodeNotFound
	}
	return nil
}

// Delete implements paycode.PayCodeRepository.
func (r *payCodeRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM pay_codes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete pay code: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return paycode.ErrPayCodeNotFound
	}
	return nil
}
