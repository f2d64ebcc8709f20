package models

// Status is the lifecycle state of a Scheduling. The set is closed and shared
// with API clients; adding a value requires extending the transition table in
// services/scheduling as well.
type Status string

const (
	StatusWaitingForBudget                Status = "WaitingForBudget"
	StatusBudgetSent                      Status = "BudgetSent"
	StatusWaitingForBudgetApproval        Status = "WaitingForBudgetApproval"
	StatusBudgetApproved                  Status = "BudgetApproved"
	StatusBudgetPartiallyApproved         Status = "BudgetPartiallyApproved"
	StatusBudgetDisapprove                Status = "BudgetDisapprove"
	StatusWaitingForPayment               Status = "WaitingForPayment"
	StatusPaymentRejected                 Status = "PaymentRejected"
	StatusPaid                            Status = "Paid"
	StatusWaitingAppointment              Status = "WaitingAppointment"
	StatusSuggestedTime                   Status = "SuggestedTime"
	StatusScheduled                       Status = "Scheduled"
	StatusAppointmentRefused              Status = "AppointmentRefused"
	StatusWaitingStart                    Status = "WaitingStart"
	StatusWaitingForPart                  Status = "WaitingForPart"
	StatusServiceInProgress               Status = "ServiceInProgress"
	StatusScheduleCompleted               Status = "ScheduleCompleted"
	StatusServiceCompleted                Status = "ServiceCompleted"
	StatusWaitingForServiceApproval       Status = "WaitingForServiceApproval"
	StatusServiceReprovedByUser           Status = "ServiceReprovedByUser"
	StatusServiceApprovedByUser           Status = "ServiceApprovedByUser"
	StatusWorkshopDispute                 Status = "WorkshopDispute"
	StatusServiceApprovedByAdmin          Status = "ServiceApprovedByAdmin"
	StatusServiceApprovedPartiallyByAdmin Status = "ServiceApprovedPartiallyByAdmin"
	StatusServiceReprovedByAdmin          Status = "ServiceReprovedByAdmin"
	StatusServiceFinished                 Status = "ServiceFinished"
	StatusDidNotAttend                    Status = "DidNotAttend"
)

// statusOrder preserves the contract ordering; rank comparisons such as
// "status >= Scheduled" are defined against this list, not declaration order.
var statusOrder = []Status{
	StatusWaitingForBudget,
	StatusBudgetSent,
	StatusWaitingForBudgetApproval,
	StatusBudgetApproved,
	StatusBudgetPartiallyApproved,
	StatusBudgetDisapprove,
	StatusWaitingForPayment,
	StatusPaymentRejected,
	StatusPaid,
	StatusWaitingAppointment,
	StatusSuggestedTime,
	StatusScheduled,
	StatusAppointmentRefused,
	StatusWaitingStart,
	StatusWaitingForPart,
	StatusServiceInProgress,
	StatusScheduleCompleted,
	StatusServiceCompleted,
	StatusWaitingForServiceApproval,
	StatusServiceReprovedByUser,
	StatusServiceApprovedByUser,
	StatusWorkshopDispute,
	StatusServiceApprovedByAdmin,
	StatusServiceApprovedPartiallyByAdmin,
	StatusServiceReprovedByAdmin,
	StatusServiceFinished,
	StatusDidNotAttend,
}

var statusRank = func() map[Status]int {
	m := make(map[Status]int, len(statusOrder))
	for i, s := range statusOrder {
		m[s] = i
	}
	return m
}()

// Rank returns the position of s in the contract ordering, or -1 for an
// unknown status.
func (s Status) Rank() int {
	r, ok := statusRank[s]
	if !ok {
		return -1
	}
	return r
}

// IsCommitted reports whether a scheduling in this status occupies its slot on
// the workshop agenda (Scheduled or any later state).
func (s Status) IsCommitted() bool {
	r := s.Rank()
	return r >= 0 && r >= statusRank[StatusScheduled]
}

// IsTerminal reports whether no further transitions are defined out of s.
func (s Status) IsTerminal() bool {
	return s == StatusServiceFinished
}

var statusTitles = map[Status]string{
	StatusWaitingForBudget:                "Waiting for budget",
	StatusBudgetSent:                      "Budget sent",
	StatusWaitingForBudgetApproval:        "Waiting for budget approval",
	StatusBudgetApproved:                  "Budget approved",
	StatusBudgetPartiallyApproved:         "Budget partially approved",
	StatusBudgetDisapprove:                "Budget disapproved",
	StatusWaitingForPayment:               "Waiting for payment",
	StatusPaymentRejected:                 "Payment rejected",
	StatusPaid:                            "Payment confirmed",
	StatusWaitingAppointment:              "Waiting for appointment confirmation",
	StatusSuggestedTime:                   "New time suggested",
	StatusScheduled:                       "Appointment scheduled",
	StatusAppointmentRefused:              "Appointment refused",
	StatusWaitingStart:                    "Waiting for service start",
	StatusWaitingForPart:                  "Waiting for part",
	StatusServiceInProgress:               "Service in progress",
	StatusScheduleCompleted:               "Vehicle received",
	StatusServiceCompleted:                "Service completed",
	StatusWaitingForServiceApproval:       "Waiting for service approval",
	StatusServiceReprovedByUser:           "Service reproved by customer",
	StatusServiceApprovedByUser:           "Service approved by customer",
	StatusWorkshopDispute:                 "Workshop opened a dispute",
	StatusServiceApprovedByAdmin:          "Service approved by administrator",
	StatusServiceApprovedPartiallyByAdmin: "Service partially approved by administrator",
	StatusServiceReprovedByAdmin:          "Service reproved by administrator",
	StatusServiceFinished:                 "Service finished",
	StatusDidNotAttend:                    "Customer did not attend",
}

// Title returns the human-readable title recorded on history entries.
func (s Status) Title() string {
	if t, ok := statusTitles[s]; ok {
		return t
	}
	return string(s)
}

// Role identifies which side of a scheduling an actor is on.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleWorkshop Role = "workshop"
	RoleAdmin    Role = "admin"
)
