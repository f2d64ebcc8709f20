package scheduling

import (
	"context"
	"fmt"

	"mechanio/models"
)

// SendBudget attaches the workshop quote to the scheduling and forwards it to
// the customer for approval.
func (svc *DefaultSchedulingWorkflow) SendBudget(ctx context.Context, actor Actor, schedulingID string, req BudgetRequest) (*models.Scheduling, error) {
	if actor.Role != models.RoleWorkshop {
		return nil, ErrNotPermitted
	}
	if len(req.Services) == 0 {
		return nil, ErrMissingServices
	}
	s, err := svc.load(ctx, actor, schedulingID)
	if err != nil {
		return nil, err
	}

	push := &models.PushMessage{
		Target:   models.PushTargetProfile,
		TargetID: s.ProfileID,
		Title:    "Budget received",
		Body:     fmt.Sprintf("%s sent a budget for %s", s.Workshop.Name, s.Vehicle.Plate),
		Data:     map[string]string{"schedulingId": s.ID},
	}
	err = svc.apply(ctx, s, ActionSendBudget, actor, "Workshop sent the budget", push, func(s *models.Scheduling) {
		s.BudgetServices = req.Services
		s.DiagnosticValue = req.DiagnosticValue
		s.BudgetImages = req.Images
		s.EstimatedTimeForCompletion = req.EstimatedTimeForCompletion
		s.MaintainedBudgetServices = nil
		s.ExcludedBudgetServices = nil
		recomputeTotal(s)
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ConfirmBudget records the customer's decision on the quote. Approval with
// the full service list yields BudgetApproved; a strict subset yields
// BudgetPartiallyApproved; either advances to WaitingForPayment with
// TotalValue recomputed from the maintained subset. Disapproval excludes the
// whole quote.
func (svc *DefaultSchedulingWorkflow) ConfirmBudget(ctx context.Context, actor Actor, schedulingID string, approve bool, keptServiceIDs []string) (*models.Scheduling, error) {
	if actor.Role != models.RoleCustomer {
		return nil, ErrNotPermitted
	}
	s, err := svc.load(ctx, actor, schedulingID)
	if err != nil {
		return nil, err
	}

	if !approve {
		push := &models.PushMessage{
			Target:   models.PushTargetWorkshop,
			TargetID: s.WorkshopID,
			Title:    "Budget disapproved",
			Body:     fmt.Sprintf("%s disapproved the budget", s.Profile.Name),
			Data:     map[string]string{"schedulingId": s.ID},
		}
		err = svc.apply(ctx, s, ActionDisapproveBudget, actor, "Customer disapproved the budget", push, func(s *models.Scheduling) {
			s.ExcludedBudgetServices = s.BudgetServices
			s.MaintainedBudgetServices = []models.BudgetService{}
			recomputeTotal(s)
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	}

	if len(keptServiceIDs) == 0 {
		return nil, ErrMissingServices
	}
	kept, excluded := splitBudgetServices(s.BudgetServices, keptServiceIDs)
	if len(kept) == 0 {
		return nil, Rule("selected services do not match the budget")
	}

	action := ActionApproveBudget
	if len(kept) < len(s.BudgetServices) {
		action = ActionApproveBudgetPartially
	}

	push := &models.PushMessage{
		Target:   models.PushTargetWorkshop,
		TargetID: s.WorkshopID,
		Title:    "Budget approved",
		Body:     fmt.Sprintf("%s approved %d of %d services", s.Profile.Name, len(kept), len(s.BudgetServices)),
		Data:     map[string]string{"schedulingId": s.ID},
	}
	err = svc.apply(ctx, s, action, actor, "Customer approved the budget", push, func(s *models.Scheduling) {
		s.MaintainedBudgetServices = kept
		s.ExcludedBudgetServices = excluded
		recomputeTotal(s)
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}
