package scheduling

import (
	"context"
	"fmt"

	"mechanio/models"
)

// ChangeSchedulingStatus drives the mechanical execution states the workshop
// reports as the service progresses. The allowed targets and their source
// states come from the transition table; anything else is rejected.
func (svc *DefaultSchedulingWorkflow) ChangeSchedulingStatus(ctx context.Context, actor Actor, schedulingID string, target models.Status) (*models.Scheduling, error) {
	if actor.Role != models.RoleWorkshop {
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

	switch target {
	case models.StatusDidNotAttend:
		err = svc.apply(ctx, s, ActionMarkDidNotAttend, actor, "Customer did not attend the appointment",
			push("Missed appointment", fmt.Sprintf("You missed your appointment at %s", s.Workshop.Name)), nil)

	case models.StatusScheduleCompleted:
		err = svc.apply(ctx, s, ActionMarkScheduleCompleted, actor, "Vehicle received at the workshop",
			push("Vehicle received", fmt.Sprintf("%s received %s", s.Workshop.Name, s.Vehicle.Plate)), nil)
		if err != nil {
			return nil, err
		}
		// A free repair skips the budget round entirely.
		followUp := ActionAwaitBudget
		desc := "Waiting for the workshop budget"
		if s.FreeRepair {
			followUp = ActionAwaitStart
			desc = "Free repair, waiting for service start"
		}
		err = svc.apply(ctx, s, followUp, actor, desc, nil, nil)

	case models.StatusWaitingForPart:
		err = svc.apply(ctx, s, ActionMarkWaitingForPart, actor, "Service paused waiting for a part",
			push("Waiting for part", fmt.Sprintf("%s is waiting for a part for %s", s.Workshop.Name, s.Vehicle.Plate)), nil)

	case models.StatusServiceInProgress:
		err = svc.apply(ctx, s, ActionStartService, actor, "Service started",
			push("Service started", fmt.Sprintf("%s started working on %s", s.Workshop.Name, s.Vehicle.Plate)),
			func(s *models.Scheduling) {
				now := svc.now()
				s.ServiceStartDate = &now
			})

	case models.StatusServiceCompleted:
		err = svc.apply(ctx, s, ActionCompleteService, actor, "Service completed, waiting for customer approval",
			push("Service completed", fmt.Sprintf("%s finished the service on %s. Please review it.", s.Workshop.Name, s.Vehicle.Plate)),
			func(s *models.Scheduling) {
				now := svc.now()
				s.ServiceEndDate = &now
			})

	default:
		return nil, ErrNotPermitted
	}

	if err != nil {
		return nil, err
	}
	return s, nil
}

// ConfirmPayment applies the platform's payment-callback outcome. Capture
// itself happens at the payment gateway; only the resulting state lands here.
func (svc *DefaultSchedulingWorkflow) ConfirmPayment(ctx context.Context, actor Actor, schedulingID string, approved bool) (*models.Scheduling, error) {
	if actor.Role != models.RoleAdmin {
		return nil, ErrNotPermitted
	}
	s, err := svc.load(ctx, actor, schedulingID)
	if err != nil {
		return nil, err
	}

	if !approved {
		push := &models.PushMessage{
			Target:   models.PushTargetProfile,
			TargetID: s.ProfileID,
			Title:    "Payment rejected",
			Body:     "Your payment could not be processed. Please try again.",
			Data:     map[string]string{"schedulingId": s.ID},
		}
		err = svc.apply(ctx, s, ActionRejectPayment, actor, "Payment was rejected by the gateway", push, func(s *models.Scheduling) {
			s.PaymentStatus = "rejected"
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	}

	push := &models.PushMessage{
		Target:   models.PushTargetWorkshop,
		TargetID: s.WorkshopID,
		Title:    "Payment confirmed",
		Body:     fmt.Sprintf("Payment of %.2f confirmed for %s", s.TotalValue, s.Vehicle.Plate),
		Data:     map[string]string{"schedulingId": s.ID},
	}
	err = svc.apply(ctx, s, ActionConfirmPayment, actor, "Payment confirmed", push, func(s *models.Scheduling) {
		now := svc.now()
		s.PaymentStatus = "paid"
		s.PaymentDate = &now
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}
