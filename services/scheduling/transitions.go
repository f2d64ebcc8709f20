package scheduling

import "mechanio/models"

// Action identifies one workflow operation against the transition table.
type Action string

const (
	ActionApproveScheduling      Action = "approve_scheduling"
	ActionRefuseScheduling       Action = "refuse_scheduling"
	ActionSuggestTime            Action = "suggest_time"
	ActionSendBudget             Action = "send_budget"
	ActionApproveBudget          Action = "approve_budget"
	ActionApproveBudgetPartially Action = "approve_budget_partially"
	ActionDisapproveBudget       Action = "disapprove_budget"
	ActionConfirmPayment         Action = "confirm_payment"
	ActionRejectPayment          Action = "reject_payment"
	ActionMarkDidNotAttend       Action = "mark_did_not_attend"
	ActionMarkScheduleCompleted  Action = "mark_schedule_completed"
	ActionAwaitBudget            Action = "await_budget"
	ActionAwaitStart             Action = "await_start"
	ActionMarkWaitingForPart     Action = "mark_waiting_for_part"
	ActionStartService           Action = "start_service"
	ActionCompleteService        Action = "complete_service"
	ActionApproveService         Action = "approve_service"
	ActionDisapproveService      Action = "disapprove_service"
	ActionOpenDispute            Action = "open_dispute"
	ActionAdminApproveService    Action = "admin_approve_service"
	ActionAdminApprovePartially  Action = "admin_approve_partially"
	ActionAdminReproveService    Action = "admin_reprove_service"
	ActionSuggestFreeRepair      Action = "suggest_free_repair"
)

// transition is one row of the state machine: an action, performed by a role,
// moves a scheduling from any of From into To. Then lists the states the
// record advances through automatically afterwards; every step, automatic or
// not, is recorded as its own history entry.
type transition struct {
	Action Action
	Role   models.Role
	From   []models.Status
	To     models.Status
	Then   []models.Status
}

// transitionTable is the full transition graph. Register is not listed: it
// creates the record directly in WaitingAppointment. No transitions exist out
// of ServiceFinished.
var transitionTable = []transition{
	// Appointment negotiation.
	{ActionApproveScheduling, models.RoleWorkshop, []models.Status{models.StatusWaitingAppointment}, models.StatusScheduled, nil},
	{ActionRefuseScheduling, models.RoleWorkshop, []models.Status{models.StatusWaitingAppointment}, models.StatusAppointmentRefused, nil},
	{ActionSuggestTime, models.RoleWorkshop, []models.Status{models.StatusWaitingAppointment}, models.StatusSuggestedTime, nil},
	{ActionApproveScheduling, models.RoleCustomer, []models.Status{models.StatusSuggestedTime}, models.StatusScheduled, nil},
	{ActionRefuseScheduling, models.RoleCustomer, []models.Status{models.StatusSuggestedTime}, models.StatusAppointmentRefused, nil},

	// Reception.
	{ActionMarkDidNotAttend, models.RoleWorkshop, []models.Status{models.StatusScheduled}, models.StatusDidNotAttend, nil},
	{ActionMarkScheduleCompleted, models.RoleWorkshop, []models.Status{models.StatusScheduled}, models.StatusScheduleCompleted, nil},
	{ActionAwaitBudget, models.RoleWorkshop, []models.Status{models.StatusScheduleCompleted}, models.StatusWaitingForBudget, nil},
	{ActionAwaitStart, models.RoleWorkshop, []models.Status{models.StatusScheduleCompleted}, models.StatusWaitingStart, nil},

	// Budget negotiation.
	{ActionSendBudget, models.RoleWorkshop, []models.Status{models.StatusWaitingForBudget}, models.StatusBudgetSent, []models.Status{models.StatusWaitingForBudgetApproval}},
	{ActionApproveBudget, models.RoleCustomer, []models.Status{models.StatusWaitingForBudgetApproval}, models.StatusBudgetApproved, []models.Status{models.StatusWaitingForPayment}},
	{ActionApproveBudgetPartially, models.RoleCustomer, []models.Status{models.StatusWaitingForBudgetApproval}, models.StatusBudgetPartiallyApproved, []models.Status{models.StatusWaitingForPayment}},
	{ActionDisapproveBudget, models.RoleCustomer, []models.Status{models.StatusWaitingForBudgetApproval}, models.StatusBudgetDisapprove, nil},

	// Payment (driven by the platform's payment callback).
	{ActionConfirmPayment, models.RoleAdmin, []models.Status{models.StatusWaitingForPayment, models.StatusPaymentRejected}, models.StatusPaid, []models.Status{models.StatusWaitingStart}},
	{ActionRejectPayment, models.RoleAdmin, []models.Status{models.StatusWaitingForPayment}, models.StatusPaymentRejected, nil},

	// Execution.
	{ActionMarkWaitingForPart, models.RoleWorkshop, []models.Status{models.StatusWaitingStart}, models.StatusWaitingForPart, nil},
	{ActionStartService, models.RoleWorkshop, []models.Status{models.StatusWaitingStart, models.StatusWaitingForPart}, models.StatusServiceInProgress, nil},
	{ActionCompleteService, models.RoleWorkshop, []models.Status{models.StatusServiceInProgress}, models.StatusServiceCompleted, []models.Status{models.StatusWaitingForServiceApproval}},

	// Customer acceptance.
	{ActionApproveService, models.RoleCustomer, []models.Status{models.StatusWaitingForServiceApproval}, models.StatusServiceApprovedByUser, []models.Status{models.StatusServiceFinished}},
	{ActionDisapproveService, models.RoleCustomer, []models.Status{models.StatusWaitingForServiceApproval}, models.StatusServiceReprovedByUser, nil},

	// Dispute resolution.
	{ActionOpenDispute, models.RoleWorkshop, []models.Status{models.StatusServiceReprovedByUser}, models.StatusWorkshopDispute, nil},
	{ActionAdminApproveService, models.RoleAdmin, []models.Status{models.StatusWorkshopDispute}, models.StatusServiceApprovedByAdmin, []models.Status{models.StatusServiceFinished}},
	{ActionAdminApprovePartially, models.RoleAdmin, []models.Status{models.StatusWorkshopDispute}, models.StatusServiceApprovedPartiallyByAdmin, []models.Status{models.StatusServiceFinished}},
	{ActionAdminReproveService, models.RoleAdmin, []models.Status{models.StatusWorkshopDispute}, models.StatusServiceReprovedByAdmin, []models.Status{models.StatusServiceFinished}},
	{ActionSuggestFreeRepair, models.RoleWorkshop, []models.Status{models.StatusServiceReprovedByUser}, models.StatusWaitingAppointment, nil},
}

// findTransition resolves the table row for (action, role, current status).
// A missing row is a business-rule rejection, not a programming error.
func findTransition(action Action, role models.Role, from models.Status) (*transition, error) {
	for i := range transitionTable {
		t := &transitionTable[i]
		if t.Action != action || t.Role != role {
			continue
		}
		for _, s := range t.From {
			if s == from {
				return t, nil
			}
		}
	}
	return nil, ErrNotPermitted
}

// steps returns the full status chain the transition moves through.
func (t *transition) steps() []models.Status {
	return append([]models.Status{t.To}, t.Then...)
}
