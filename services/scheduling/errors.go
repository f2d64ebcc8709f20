package scheduling

import "errors"

// RuleError is a business-rule violation: wrong role, wrong source state,
// unavailable slot, missing payload. It carries a user-facing message and is
// rendered as an ordinary failure response, never a 5xx. No partial mutation
// happens when one is returned.
type RuleError struct {
	Message string
}

func (e *RuleError) Error() string {
	return e.Message
}

// Rule builds a RuleError with the given user-facing message.
func Rule(message string) error {
	return &RuleError{Message: message}
}

// IsRuleError reports whether err is a business-rule violation.
func IsRuleError(err error) bool {
	var re *RuleError
	return errors.As(err, &re)
}

var (
	ErrNotPermitted        = Rule("operation not permitted for the current scheduling status")
	ErrNotOwner            = Rule("scheduling does not belong to the acting account")
	ErrSlotInUse           = Rule("slot in use")
	ErrSlotUnavailable     = Rule("requested time is not available on the workshop agenda")
	ErrPastDate            = Rule("requested date is in the past")
	ErrLeadTimeViolated    = Rule("requested time violates the minimum scheduling notice")
	ErrAgendaNotConfigured = Rule("workshop has not configured its agenda")
	ErrNoServicesOffered   = Rule("workshop has no services available for scheduling")
	ErrMissingServices     = Rule("at least one service must be selected")
	ErrMissingReason       = Rule("a reason is required for disapproval")
	ErrMissingDispute      = Rule("a dispute argument is required")
	ErrSchedulingNotFound  = Rule("scheduling not found")
)
