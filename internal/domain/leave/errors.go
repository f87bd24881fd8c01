package leave

import "errors"

var (
	// Leave type
	ErrLeaveTypeNotFound         = errors.New("leave type not found")
	ErrLeaveTypeNameExists       = errors.New("a leave type with this name already exists")
	ErrLeaveTypeInactive         = errors.New("invalid or inactive leave type")
	ErrLeaveTypeHasPending       = errors.New("cannot deactivate leave type with pending applications")
	ErrLeaveTypeRequiresApproval = errors.New("this leave type requires approval and cannot be auto-approved")

	// Balance
	ErrLeaveBalanceNotFound = errors.New("leave balance not found")
	ErrInsufficientBalance  = errors.New("insufficient leave balance")

	// Application
	ErrApplicationNotFound    = errors.New("leave application not found")
	ErrOverlappingApplication = errors.New("overlapping leave application already exists")
	ErrInvalidDateRange       = errors.New("end date must not be before start date")
	ErrMustBeFutureDate       = errors.New("leave applications must be for future dates")
	ErrExceedsMaxConsecutive  = errors.New("requested days exceed the leave type's maximum consecutive days")
	ErrApplicationNotPending  = errors.New("application is not pending approval")
	ErrNotCancellable         = errors.New("only pending or approved applications can be cancelled")
	ErrLeaveAlreadyStarted    = errors.New("cannot cancel approved leave that has already started")

	// Authorization
	ErrSelfAutoApprove         = errors.New("you cannot auto-approve your own leave application")
	ErrAutoApproveNotPermitted = errors.New("you can only auto-approve leave for employees in your managed departments")
	ErrNotAllowedForEmployee   = errors.New("you do not have permission to act for this employee")
	ErrNotAllowedToReview      = errors.New("you do not have permission to review this application")
	ErrTeamViewNotPermitted    = errors.New("you do not have permission to view team applications")
)
