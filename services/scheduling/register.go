package scheduling

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	agendaRepo "mechanio/database/repository/agenda"
	profileRepo "mechanio/database/repository/profile"
	schedulingRepo "mechanio/database/repository/scheduling"
	workshopRepo "mechanio/database/repository/workshop"
	"mechanio/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// dayBounds returns the [midnight, next midnight) window containing t in the
// platform timezone.
func (svc *DefaultSchedulingWorkflow) dayBounds(t time.Time) (time.Time, time.Time) {
	local := t.In(svc.Calc.Loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, svc.Calc.Loc)
	return start, start.AddDate(0, 0, 1)
}

// availabilityInput assembles the calculator input for one (workshop, date).
func (svc *DefaultSchedulingWorkflow) availabilityInput(
	ctx context.Context,
	workshop *models.Workshop,
	date time.Time,
	serviceIDs []string,
	role models.Role,
) (AvailabilityInput, error) {
	agenda, err := svc.Agenda.GetAgenda(ctx, workshop.ID)
	if err != nil {
		if errors.Is(err, agendaRepo.ErrNotConfigured) {
			return AvailabilityInput{}, ErrAgendaNotConfigured
		}
		return AvailabilityInput{}, err
	}

	from, to := svc.dayBounds(date)
	bookings, err := svc.Repo.FindBy(ctx, schedulingRepo.Filter{
		WorkshopID:    workshop.ID,
		From:          &from,
		To:            &to,
		CommittedOnly: true,
	})
	if err != nil {
		return AvailabilityInput{}, err
	}
	blocked, err := svc.Agenda.ListBlockedSlots(ctx, workshop.ID, from, to)
	if err != nil {
		return AvailabilityInput{}, err
	}

	var services []models.WorkshopService
	for _, id := range serviceIDs {
		ws, ok := workshop.ServiceByID(id)
		if !ok {
			return AvailabilityInput{}, Rule(fmt.Sprintf("workshop does not offer service %s", id))
		}
		services = append(services, ws)
	}

	return AvailabilityInput{
		Agenda:   agenda,
		Bookings: bookings,
		Blocked:  blocked,
		Services: services,
		Date:     date,
		Role:     role,
		Now:      svc.now(),
	}, nil
}

func availabilityCacheKey(workshopID, date string, role models.Role, serviceIDs []string) string {
	ids := append([]string(nil), serviceIDs...)
	sort.Strings(ids)
	return fmt.Sprintf("availability:%s:%s:%s:%s", workshopID, date, role, strings.Join(ids, ","))
}

// invalidateAvailability drops every cached availability view for the
// workshop and date after a booking, block or template change.
func (svc *DefaultSchedulingWorkflow) invalidateAvailability(ctx context.Context, workshopID string, date time.Time) {
	if svc.Cache == nil {
		return
	}
	pattern := fmt.Sprintf("availability:%s:%s:*", workshopID, date.In(svc.Calc.Loc).Format("2006-01-02"))
	iter := svc.Cache.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := svc.Cache.Del(ctx, iter.Val()).Err(); err != nil {
			svc.logger().Warn("failed to drop cached availability", zap.String("key", iter.Val()), zap.Error(err))
		}
	}
	if err := iter.Err(); err != nil {
		svc.logger().Warn("availability cache scan failed", zap.String("workshopId", workshopID), zap.Error(err))
	}
}

// GetAvailability computes the bookable slots for a workshop and date, shaped
// by the requester role. Results are cached briefly per (workshop, date, role,
// services).
func (svc *DefaultSchedulingWorkflow) GetAvailability(
	ctx context.Context,
	actor Actor,
	workshopID string,
	date time.Time,
	serviceIDs []string,
) (models.DayAvailability, error) {
	workshop, err := svc.Workshops.GetByID(ctx, workshopID)
	if err != nil {
		if errors.Is(err, workshopRepo.ErrNotFound) {
			return models.DayAvailability{}, Rule("workshop not found")
		}
		return models.DayAvailability{}, err
	}

	key := availabilityCacheKey(workshopID, date.In(svc.Calc.Loc).Format("2006-01-02"), actor.Role, serviceIDs)
	if svc.Cache != nil {
		if cached, err := svc.Cache.Get(ctx, key).Result(); err == nil {
			var day models.DayAvailability
			if err := json.Unmarshal([]byte(cached), &day); err == nil {
				return day, nil
			}
		}
	}

	in, err := svc.availabilityInput(ctx, workshop, date, serviceIDs, actor.Role)
	if err != nil {
		return models.DayAvailability{}, err
	}
	day, err := svc.Calc.DayAvailability(in)
	if err != nil {
		return models.DayAvailability{}, err
	}

	if svc.Cache != nil {
		if data, err := json.Marshal(day); err == nil {
			if err := svc.Cache.Set(ctx, key, data, svc.CacheTTL).Err(); err != nil {
				svc.logger().Warn("failed to cache availability", zap.String("key", key), zap.Error(err))
			}
		}
	}
	return day, nil
}

// Register creates a scheduling in WaitingAppointment after validating the
// requested slot against the workshop agenda, lead times, existing bookings
// and blocks. The storage-level unique index is the authoritative guard
// against two concurrent bookings racing past the existence check.
func (svc *DefaultSchedulingWorkflow) Register(ctx context.Context, actor Actor, req RegisterRequest) (*models.Scheduling, error) {
	if actor.Role != models.RoleCustomer {
		return nil, ErrNotPermitted
	}
	if len(req.ServiceIDs) == 0 {
		return nil, ErrMissingServices
	}

	workshop, err := svc.Workshops.GetByID(ctx, req.WorkshopID)
	if err != nil {
		if errors.Is(err, workshopRepo.ErrNotFound) {
			return nil, Rule("workshop not found")
		}
		return nil, err
	}
	if len(workshop.Services) == 0 {
		return nil, ErrNoServicesOffered
	}

	profile, err := svc.Profiles.GetByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, profileRepo.ErrNotFound) {
			return nil, Rule("profile not found")
		}
		return nil, err
	}
	var vehicle *models.Vehicle
	for i := range profile.Vehicles {
		if profile.Vehicles[i].ID == req.VehicleID {
			vehicle = &profile.Vehicles[i]
			break
		}
	}
	if vehicle == nil {
		return nil, Rule("vehicle does not belong to the acting profile")
	}

	now := svc.now()
	if !req.Date.After(now) {
		return nil, ErrPastDate
	}

	in, err := svc.availabilityInput(ctx, workshop, req.Date, req.ServiceIDs, models.RoleCustomer)
	if err != nil {
		return nil, err
	}
	if req.Date.Before(now.Add(MinimumLeadTime(in.Services))) {
		return nil, ErrLeadTimeViolated
	}
	available, err := svc.Calc.SlotAvailable(in, req.Date)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, ErrSlotUnavailable
	}

	// Pre-insert existence check; the unique index still backs this up.
	if _, err := svc.Repo.FindOneBy(ctx, schedulingRepo.Filter{
		WorkshopID:    req.WorkshopID,
		Date:          &req.Date,
		CommittedOnly: true,
	}); err == nil {
		return nil, ErrSlotInUse
	} else if !errors.Is(err, schedulingRepo.ErrNotFound) {
		return nil, err
	}

	var requested []models.BudgetService
	for _, id := range req.ServiceIDs {
		ws, _ := workshop.ServiceByID(id)
		requested = append(requested, models.BudgetService{ServiceID: ws.ID, Name: ws.Name, Value: ws.Value})
	}

	s := &models.Scheduling{
		ID:         uuid.New().String(),
		ProfileID:  profile.ID,
		Profile:    models.ProfileSummary{Name: profile.Name, Phone: profile.Phone, FCMToken: profile.FCMToken},
		WorkshopID: workshop.ID,
		Workshop:   models.WorkshopSummary{Name: workshop.Name, Address: workshop.Address, FCMToken: workshop.FCMToken},
		VehicleID:  vehicle.ID,
		Vehicle:    models.VehicleSummary{Plate: vehicle.Plate, Model: vehicle.Model, Brand: vehicle.Brand},
		ServiceIDs: req.ServiceIDs,
		Services:   requested,
		Date:       req.Date,
		Status:     models.StatusWaitingAppointment,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := svc.Repo.Create(ctx, s); err != nil {
		if errors.Is(err, schedulingRepo.ErrSlotTaken) {
			return nil, ErrSlotInUse
		}
		return nil, fmt.Errorf("error creating scheduling: %w", err)
	}

	svc.invalidateAvailability(ctx, workshop.ID, req.Date)
	svc.publish(ctx, StatusEvent{
		SchedulingID: s.ID,
		Status:       s.Status,
		Title:        s.Status.Title(),
		Description:  fmt.Sprintf("%s requested an appointment on %s", profile.Name, req.Date.In(svc.Calc.Loc).Format("02 Jan 15:04")),
		Push: &models.PushMessage{
			Target:   models.PushTargetWorkshop,
			TargetID: workshop.ID,
			Title:    "New appointment request",
			Body:     fmt.Sprintf("%s requested %s on %s", profile.Name, vehicle.Plate, req.Date.In(svc.Calc.Loc).Format("02 Jan 15:04")),
			Data:     map[string]string{"schedulingId": s.ID},
		},
		OccurredAt: now,
	})
	return s, nil
}

// Delete removes a scheduling that has not yet been confirmed by the
// workshop. Confirmed and later records are never hard-deleted.
func (svc *DefaultSchedulingWorkflow) Delete(ctx context.Context, actor Actor, schedulingID string) error {
	if actor.Role != models.RoleCustomer {
		return ErrNotPermitted
	}
	s, err := svc.load(ctx, actor, schedulingID)
	if err != nil {
		return err
	}
	switch s.Status {
	case models.StatusWaitingAppointment, models.StatusSuggestedTime:
	default:
		return Rule("only unconfirmed schedulings can be removed")
	}
	if err := svc.Repo.Delete(ctx, schedulingID); err != nil {
		return fmt.Errorf("error deleting scheduling %s: %w", schedulingID, err)
	}
	svc.invalidateAvailability(ctx, s.WorkshopID, s.Date)
	return nil
}
