package scheduling

import (
	"context"
	"fmt"
	"strings"

	"mechanio/models"
)

// ConfirmService records the customer's verdict on the completed work.
// Approval closes the scheduling and releases the full amount to the
// workshop; disapproval requires a reason and opens the rework round.
func (svc *DefaultSchedulingWorkflow) ConfirmService(ctx context.Context, actor Actor, schedulingID string, approve bool, reason string, images []string) (*models.Scheduling, error) {
	if actor.Role != models.RoleCustomer {
		return nil, ErrNotPermitted
	}
	s, err := svc.load(ctx, actor, schedulingID)
	if err != nil {
		return nil, err
	}

	if approve {
		push := &models.PushMessage{
			Target:   models.PushTargetWorkshop,
			TargetID: s.WorkshopID,
			Title:    "Service approved",
			Body:     fmt.Sprintf("%s approved the service on %s", s.Profile.Name, s.Vehicle.Plate),
			Data:     map[string]string{"schedulingId": s.ID},
		}
		err = svc.apply(ctx, s, ActionApproveService, actor, "Customer approved the service", push, func(s *models.Scheduling) {
			s.TotalValueToWorkshop = s.TotalValue
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	}

	if strings.TrimSpace(reason) == "" {
		return nil, ErrMissingReason
	}
	push := &models.PushMessage{
		Target:   models.PushTargetWorkshop,
		TargetID: s.WorkshopID,
		Title:    "Service disapproved",
		Body:     fmt.Sprintf("%s disapproved the service on %s", s.Profile.Name, s.Vehicle.Plate),
		Data:     map[string]string{"schedulingId": s.ID},
	}
	err = svc.apply(ctx, s, ActionDisapproveService, actor, "Customer disapproved the service", push, func(s *models.Scheduling) {
		s.ReasonDisapproval = reason
		s.ImagesDisapproval = images
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// DisputeDisapprovedService lets the workshop contest a customer disapproval.
// The argument is mandatory; the admin pool is notified to arbitrate.
func (svc *DefaultSchedulingWorkflow) DisputeDisapprovedService(ctx context.Context, actor Actor, schedulingID string, argument string, images []string) (*models.Scheduling, error) {
	if actor.Role != models.RoleWorkshop {
		return nil, ErrNotPermitted
	}
	if strings.TrimSpace(argument) == "" {
		return nil, ErrMissingDispute
	}
	s, err := svc.load(ctx, actor, schedulingID)
	if err != nil {
		return nil, err
	}

	push := &models.PushMessage{
		Target: models.PushTargetAdminPool,
		Title:  "Dispute opened",
		Body:   fmt.Sprintf("%s disputed a disapproved service for %s", s.Workshop.Name, s.Vehicle.Plate),
		Data:   map[string]string{"schedulingId": s.ID},
	}
	err = svc.apply(ctx, s, ActionOpenDispute, actor, "Workshop disputed the disapproval", push, func(s *models.Scheduling) {
		s.Dispute = argument
		s.ImagesDispute = images
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ApproveOrReproveService is the admin arbitration of an open dispute. A full
// approval releases the whole amount; a partial approval releases only the
// value of the approved services and books the difference as a customer
// refund; a reproval refunds everything. All three close the scheduling.
func (svc *DefaultSchedulingWorkflow) ApproveOrReproveService(ctx context.Context, actor Actor, schedulingID string, decision AdminDecision, approvedServiceIDs []string) (*models.Scheduling, error) {
	if actor.Role != models.RoleAdmin {
		return nil, ErrNotPermitted
	}
	s, err := svc.load(ctx, actor, schedulingID)
	if err != nil {
		return nil, err
	}

	push := func(title, body string) *models.PushMessage {
		return &models.PushMessage{
			Target:   models.PushTargetProfile,
			TargetID: s.ProfileID,
			Title:    title,
			Body:     body,
			Data:     map[string]string{"schedulingId": s.ID},
		}
	}

	switch decision {
	case DecisionApprove:
		err = svc.apply(ctx, s, ActionAdminApproveService, actor, "Dispute resolved in favor of the workshop",
			push("Dispute resolved", "The dispute was resolved in favor of the workshop."),
			func(s *models.Scheduling) {
				s.ServiceFinishedByAdmin = true
				s.ResolvedByAdminID = actor.ID
				s.TotalValueToWorkshop = s.TotalValue
			})

	case DecisionApprovePartially:
		if len(approvedServiceIDs) == 0 {
			return nil, Rule("a partial approval must list the approved services")
		}
		source := s.BudgetServices
		if s.MaintainedBudgetServices != nil {
			source = s.MaintainedBudgetServices
		}
		approved, _ := splitBudgetServices(source, approvedServiceIDs)
		if len(approved) == 0 {
			return nil, Rule("none of the listed services belong to this budget")
		}
		err = svc.apply(ctx, s, ActionAdminApprovePartially, actor, "Dispute resolved with a partial approval",
			push("Dispute resolved", "The dispute was resolved with a partial approval. A refund was issued for the rejected part."),
			func(s *models.Scheduling) {
				previous := s.TotalValue
				s.ServiceFinishedByAdmin = true
				s.ResolvedByAdminID = actor.ID
				s.BudgetServicesApprovedByAdmin = approved
				s.TotalValueToWorkshop = sumValues(approved)
				s.TotalRefundToProfile = previous - s.TotalValueToWorkshop
				recomputeTotal(s)
			})

	case DecisionReprove:
		err = svc.apply(ctx, s, ActionAdminReproveService, actor, "Dispute resolved in favor of the customer",
			push("Dispute resolved", "The dispute was resolved in your favor. A full refund was issued."),
			func(s *models.Scheduling) {
				s.ServiceFinishedByAdmin = true
				s.ResolvedByAdminID = actor.ID
				s.TotalValueToWorkshop = 0
				s.TotalRefundToProfile = s.TotalValue
			})

	default:
		return nil, Rule("unknown dispute decision")
	}

	if err != nil {
		return nil, err
	}
	return s, nil
}

// SuggestFreeRepair offers a no-cost rework after a customer disapproval. The
// record returns to appointment negotiation and the customer picks a new slot
// through ScheduleFreeRepair.
func (svc *DefaultSchedulingWorkflow) SuggestFreeRepair(ctx context.Context, actor Actor, schedulingID string) (*models.Scheduling, error) {
	if actor.Role != models.RoleWorkshop {
		return nil, ErrNotPermitted
	}
	s, err := svc.load(ctx, actor, schedulingID)
	if err != nil {
		return nil, err
	}

	push := &models.PushMessage{
		Target:   models.PushTargetProfile,
		TargetID: s.ProfileID,
		Title:    "Free repair offered",
		Body:     fmt.Sprintf("%s offered to redo the service on %s at no cost. Pick a new time.", s.Workshop.Name, s.Vehicle.Plate),
		Data:     map[string]string{"schedulingId": s.ID},
	}
	err = svc.apply(ctx, s, ActionSuggestFreeRepair, actor, "Workshop offered a free repair", push, func(s *models.Scheduling) {
		s.FreeRepair = true
		s.AwaitFreeRepairScheduling = true
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}
