package paycode

import (
	"time"

	"github.com/shopspring/decimal"
)

// Configuration is the optional policy attached to a pay code
type Configuration struct {
	IsPaid             bool             `json:"is_paid"`
	RequiresApproval   bool             `json:"requires_approval"`
	MaxHoursPerDay     *decimal.Decimal `json:"max_hours_per_day,omitempty"`
	MaxConsecutiveDays *int             `json:"max_consecutive_days,omitempty"`
}

type PayCode struct {
	ID            string
	Code          string
	Description   string
	IsAbsenceCode bool
	IsActive      bool
	Configuration *Configuration
	CreatedByID   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
