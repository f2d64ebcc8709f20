package scheduling

import (
	"context"
	"fmt"
	"time"

	"mechanio/models"
)

// ConfirmScheduling approves or declines an appointment. A workshop decides
// on the customer's initial request; a customer decides on a workshop's
// suggested alternate time, which on approval becomes the committed date.
func (svc *DefaultSchedulingWorkflow) ConfirmScheduling(ctx context.Context, actor Actor, schedulingID string, approve bool) (*models.Scheduling, error) {
	s, err := svc.load(ctx, actor, schedulingID)
	if err != nil {
		return nil, err
	}

	action := ActionApproveScheduling
	if !approve {
		action = ActionRefuseScheduling
	}

	var push *models.PushMessage
	var description string
	when := s.Date

	mutate := func(s *models.Scheduling) {
		if approve {
			if actor.Role == models.RoleCustomer && s.SuggestedDate != nil {
				s.Date = *s.SuggestedDate
				s.SuggestedDate = nil
			}
			s.AwaitFreeRepairScheduling = false
		}
	}

	switch actor.Role {
	case models.RoleWorkshop:
		if approve {
			description = "Workshop confirmed the appointment"
			push = &models.PushMessage{
				Target:   models.PushTargetProfile,
				TargetID: s.ProfileID,
				Title:    "Appointment confirmed",
				Body:     fmt.Sprintf("%s confirmed your appointment on %s", s.Workshop.Name, when.In(svc.Calc.Loc).Format("02 Jan 15:04")),
				Data:     map[string]string{"schedulingId": s.ID},
			}
		} else {
			description = "Workshop declined the appointment"
			push = &models.PushMessage{
				Target:   models.PushTargetProfile,
				TargetID: s.ProfileID,
				Title:    "Appointment refused",
				Body:     fmt.Sprintf("%s could not take your appointment", s.Workshop.Name),
				Data:     map[string]string{"schedulingId": s.ID},
			}
		}
	case models.RoleCustomer:
		if s.SuggestedDate != nil {
			when = *s.SuggestedDate
		}
		if approve {
			description = "Customer accepted the suggested time"
			push = &models.PushMessage{
				Target:   models.PushTargetWorkshop,
				TargetID: s.WorkshopID,
				Title:    "Suggested time accepted",
				Body:     fmt.Sprintf("%s accepted %s", s.Profile.Name, when.In(svc.Calc.Loc).Format("02 Jan 15:04")),
				Data:     map[string]string{"schedulingId": s.ID},
			}
		} else {
			description = "Customer declined the suggested time"
			push = &models.PushMessage{
				Target:   models.PushTargetWorkshop,
				TargetID: s.WorkshopID,
				Title:    "Suggested time declined",
				Body:     fmt.Sprintf("%s declined the suggested time", s.Profile.Name),
				Data:     map[string]string{"schedulingId": s.ID},
			}
		}
	default:
		return nil, ErrNotPermitted
	}

	if err := svc.apply(ctx, s, action, actor, description, push, mutate); err != nil {
		return nil, err
	}
	svc.invalidateAvailability(ctx, s.WorkshopID, s.Date)
	return s, nil
}

// SuggestTime records a workshop counter-proposal for the appointment.
func (svc *DefaultSchedulingWorkflow) SuggestTime(ctx context.Context, actor Actor, schedulingID string, suggested time.Time) (*models.Scheduling, error) {
	if actor.Role != models.RoleWorkshop {
		return nil, ErrNotPermitted
	}
	s, err := svc.load(ctx, actor, schedulingID)
	if err != nil {
		return nil, err
	}
	if !suggested.After(svc.now()) {
		return nil, ErrPastDate
	}

	push := &models.PushMessage{
		Target:   models.PushTargetProfile,
		TargetID: s.ProfileID,
		Title:    "New time suggested",
		Body:     fmt.Sprintf("%s suggested %s instead", s.Workshop.Name, suggested.In(svc.Calc.Loc).Format("02 Jan 15:04")),
		Data:     map[string]string{"schedulingId": s.ID},
	}
	err = svc.apply(ctx, s, ActionSuggestTime, actor, "Workshop suggested an alternate time", push, func(s *models.Scheduling) {
		s.SuggestedDate = &suggested
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ScheduleFreeRepair lets the customer pick a new slot for an agreed free
// repair. The record stays in WaitingAppointment for the workshop to confirm;
// no status change happens, so no history entry is written.
func (svc *DefaultSchedulingWorkflow) ScheduleFreeRepair(ctx context.Context, actor Actor, schedulingID string, date time.Time) (*models.Scheduling, error) {
	if actor.Role != models.RoleCustomer {
		return nil, ErrNotPermitted
	}
	s, err := svc.load(ctx, actor, schedulingID)
	if err != nil {
		return nil, err
	}
	if s.Status != models.StatusWaitingAppointment || !s.AwaitFreeRepairScheduling {
		return nil, ErrNotPermitted
	}
	if !date.After(svc.now()) {
		return nil, ErrPastDate
	}

	workshop, err := svc.Workshops.GetByID(ctx, s.WorkshopID)
	if err != nil {
		return nil, err
	}
	in, err := svc.availabilityInput(ctx, workshop, date, s.ServiceIDs, models.RoleCustomer)
	if err != nil {
		return nil, err
	}
	available, err := svc.Calc.SlotAvailable(in, date)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, ErrSlotUnavailable
	}

	s.Date = date
	s.AwaitFreeRepairScheduling = false
	s.UpdatedAt = svc.now()
	if err := svc.Repo.Update(ctx, s); err != nil {
		return nil, fmt.Errorf("error rescheduling free repair for %s: %w", s.ID, err)
	}
	svc.invalidateAvailability(ctx, s.WorkshopID, date)
	return s, nil
}
