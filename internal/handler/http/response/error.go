package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/employee"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/leave"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/notification"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/paycode"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/payroll"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/timeentry"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/user"
	"github.com/qhamayedwa/altron-wfm-backend/internal/pkg/validator"
)

var notFoundErrors = []error{
	employee.ErrEmployeeNotFound,
	timeentry.ErrTimeEntryNotFound,
	paycode.ErrPayCodeNotFound,
	payroll.ErrPayRuleNotFound,
	payroll.ErrPayCalculationNotFound,
	leave.ErrLeaveTypeNotFound,
	leave.ErrLeaveBalanceNotFound,
	leave.ErrApplicationNotFound,
	notification.ErrNotificationNotFound,
}

var forbiddenErrors = []error{
	user.ErrInsufficientPermissions,
	payroll.ErrCalculationNotPermitted,
	timeentry.ErrNotAllowedToView,
	timeentry.ErrNotAllowedToApprove,
	leave.ErrSelfAutoApprove,
	leave.ErrAutoApproveNotPermitted,
	leave.ErrNotAllowedForEmployee,
	leave.ErrNotAllowedToReview,
	leave.ErrTeamViewNotPermitted,
}

var conflictErrors = []error{
	paycode.ErrPayCodeCodeExists,
	paycode.ErrPayCodeInUse,
	payroll.ErrPayRuleNameExists,
	payroll.ErrPayRuleInUse,
	leave.ErrLeaveTypeNameExists,
	leave.ErrLeaveTypeHasPending,
	leave.ErrOverlappingApplication,
	timeentry.ErrAlreadyClockedIn,
}

var badRequestErrors = []error{
	timeentry.ErrNotClockedIn,
	timeentry.ErrEntryNotClosed,
	payroll.ErrNoTimeEntries,
	payroll.ErrReorderUnknownRule,
	leave.ErrInsufficientBalance,
	leave.ErrInvalidDateRange,
	leave.ErrMustBeFutureDate,
	leave.ErrExceedsMaxConsecutive,
	leave.ErrLeaveTypeInactive,
	leave.ErrLeaveTypeRequiresApproval,
	leave.ErrApplicationNotPending,
	leave.ErrNotCancellable,
	leave.ErrLeaveAlreadyStarted,
	employee.ErrEmployeeInactive,
	notification.ErrRecipientRequired,
}

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	case matchesAny(err, notFoundErrors):
		NotFound(w, err.Error())
	case matchesAny(err, forbiddenErrors):
		Forbidden(w, err.Error())
	case matchesAny(err, conflictErrors):
		Conflict(w, err.Error())
	case matchesAny(err, badRequestErrors):
		BadRequest(w, err.Error(), nil)
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}

func matchesAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
