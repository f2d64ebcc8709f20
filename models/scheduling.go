package models

import "time"

// BudgetService is one priced line of a workshop quote.
type BudgetService struct {
	ServiceID string  `bson:"service_id" json:"service_id"`
	Name      string  `bson:"name" json:"name"`
	Value     float64 `bson:"value" json:"value"`
}

// Scheduling is one appointment engagement between a customer and a workshop,
// tracked through its full lifecycle. Records are mutated exclusively through
// the scheduling workflow; status never changes outside the transition table.
type Scheduling struct {
	ID string `bson:"id" json:"id"`

	// References plus denormalized display snapshots.
	ProfileID  string          `bson:"profile_id" json:"profile_id"`
	Profile    ProfileSummary  `bson:"profile" json:"profile"`
	WorkshopID string          `bson:"workshop_id" json:"workshop_id"`
	Workshop   WorkshopSummary `bson:"workshop" json:"workshop"`
	VehicleID  string          `bson:"vehicle_id" json:"vehicle_id"`
	Vehicle    VehicleSummary  `bson:"vehicle" json:"vehicle"`
	ServiceIDs []string        `bson:"service_ids" json:"service_ids"`
	Services   []BudgetService `bson:"services" json:"services"`

	// Date is the committed appointment instant. SuggestedDate carries a
	// workshop counter-proposal until the customer decides on it.
	Date          time.Time  `bson:"date" json:"date"`
	SuggestedDate *time.Time `bson:"suggested_date,omitempty" json:"suggested_date,omitempty"`

	Status Status `bson:"status" json:"status"`

	// Budget sub-state. TotalValue is always recomputed from the considered
	// service set plus DiagnosticValue, never hand-set.
	DiagnosticValue               float64         `bson:"diagnostic_value" json:"diagnostic_value"`
	BudgetServices                []BudgetService `bson:"budget_services,omitempty" json:"budget_services,omitempty"`
	MaintainedBudgetServices      []BudgetService `bson:"maintained_budget_services,omitempty" json:"maintained_budget_services,omitempty"`
	ExcludedBudgetServices        []BudgetService `bson:"excluded_budget_services,omitempty" json:"excluded_budget_services,omitempty"`
	BudgetServicesApprovedByAdmin []BudgetService `bson:"budget_services_approved_by_admin,omitempty" json:"budget_services_approved_by_admin,omitempty"`
	BudgetImages                  []string        `bson:"budget_images,omitempty" json:"budget_images,omitempty"`
	TotalValue                    float64         `bson:"total_value" json:"total_value"`
	TotalValueToWorkshop          float64         `bson:"total_value_to_workshop,omitempty" json:"total_value_to_workshop,omitempty"`
	TotalRefundToProfile          float64         `bson:"total_refund_to_profile,omitempty" json:"total_refund_to_profile,omitempty"`
	EstimatedTimeForCompletion    string          `bson:"estimated_time_for_completion,omitempty" json:"estimated_time_for_completion,omitempty"`

	// Payment sub-state. Capture itself happens behind the payment port.
	PaymentStatus string     `bson:"payment_status,omitempty" json:"payment_status,omitempty"`
	PaymentDate   *time.Time `bson:"payment_date,omitempty" json:"payment_date,omitempty"`

	// Execution sub-state.
	ServiceStartDate          *time.Time `bson:"service_start_date,omitempty" json:"service_start_date,omitempty"`
	ServiceEndDate            *time.Time `bson:"service_end_date,omitempty" json:"service_end_date,omitempty"`
	FreeRepair                bool       `bson:"free_repair" json:"free_repair"`
	AwaitFreeRepairScheduling bool       `bson:"await_free_repair_scheduling" json:"await_free_repair_scheduling"`

	// Dispute sub-state.
	ReasonDisapproval      string   `bson:"reason_disapproval,omitempty" json:"reason_disapproval,omitempty"`
	ImagesDisapproval      []string `bson:"images_disapproval,omitempty" json:"images_disapproval,omitempty"`
	Dispute                string   `bson:"dispute,omitempty" json:"dispute,omitempty"`
	ImagesDispute          []string `bson:"images_dispute,omitempty" json:"images_dispute,omitempty"`
	ServiceFinishedByAdmin bool     `bson:"service_finished_by_admin" json:"service_finished_by_admin"`
	ResolvedByAdminID      string   `bson:"resolved_by_admin_id,omitempty" json:"resolved_by_admin_id,omitempty"`

	HasEvaluated bool `bson:"has_evaluated" json:"has_evaluated"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// ProfileSummary is the customer snapshot denormalized onto a scheduling.
type ProfileSummary struct {
	Name     string `bson:"name" json:"name"`
	Phone    string `bson:"phone,omitempty" json:"phone,omitempty"`
	FCMToken string `bson:"fcm_token,omitempty" json:"-"`
}

// WorkshopSummary is the workshop snapshot denormalized onto a scheduling.
type WorkshopSummary struct {
	Name     string `bson:"name" json:"name"`
	Address  string `bson:"address,omitempty" json:"address,omitempty"`
	FCMToken string `bson:"fcm_token,omitempty" json:"-"`
}

// VehicleSummary identifies the vehicle the appointment is for.
type VehicleSummary struct {
	Plate string `bson:"plate" json:"plate"`
	Model string `bson:"model,omitempty" json:"model,omitempty"`
	Brand string `bson:"brand,omitempty" json:"brand,omitempty"`
}
