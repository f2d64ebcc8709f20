package agenda

import (
	"context"
	"errors"
	"fmt"
	"time"

	agendaRepo "mechanio/database/repository/agenda"
	schedulingRepo "mechanio/database/repository/scheduling"
	"mechanio/models"
	"mechanio/services/notification"
	"mechanio/services/scheduling"
	"mechanio/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AgendaService manages each workshop's weekly template and its ad-hoc
// blocked slots.
type AgendaService interface {
	GetAgenda(ctx context.Context, workshopID string) (*models.WorkshopAgenda, error)
	SetWeeklyTemplate(ctx context.Context, workshopID string, days [7]models.DayAgenda) (*models.WorkshopAgenda, models.AgendaDiff, error)
	BlockSlot(ctx context.Context, workshopID string, date time.Time) (*models.BlockedSlot, error)
	UnblockSlot(ctx context.Context, workshopID string, date time.Time) error
	ListBlockedSlots(ctx context.Context, workshopID string, from, to time.Time) ([]models.BlockedSlot, error)
}

// DefaultAgendaService is the production implementation.
type DefaultAgendaService struct {
	Store       agendaRepo.AgendaStore
	Schedulings schedulingRepo.ScheduleRepository
	Notifier    notification.NotificationService
	Cache       *redis.Client
	Loc         *time.Location

	Now func() time.Time
}

func (svc *DefaultAgendaService) now() time.Time {
	if svc.Now != nil {
		return svc.Now()
	}
	return time.Now()
}

func (svc *DefaultAgendaService) GetAgenda(ctx context.Context, workshopID string) (*models.WorkshopAgenda, error) {
	a, err := svc.Store.GetAgenda(ctx, workshopID)
	if err != nil {
		if errors.Is(err, agendaRepo.ErrNotConfigured) {
			return nil, scheduling.ErrAgendaNotConfigured
		}
		return nil, err
	}
	return a, nil
}

// SetWeeklyTemplate validates and stores the weekly template, returning the
// explicit field-level diff against the previous one. The diff drives the
// confirmation push and is empty on a no-op update.
func (svc *DefaultAgendaService) SetWeeklyTemplate(ctx context.Context, workshopID string, days [7]models.DayAgenda) (*models.WorkshopAgenda, models.AgendaDiff, error) {
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if err := validateDay(wd, days[int(wd)]); err != nil {
			return nil, models.AgendaDiff{}, err
		}
	}

	now := svc.now()
	updated := &models.WorkshopAgenda{
		WorkshopID: workshopID,
		Days:       days,
		UpdatedAt:  now,
	}

	old, err := svc.Store.GetAgenda(ctx, workshopID)
	switch {
	case err == nil:
		updated.ID = old.ID
		updated.CreatedAt = old.CreatedAt
	case errors.Is(err, agendaRepo.ErrNotConfigured):
		updated.ID = uuid.NewString()
		updated.CreatedAt = now
		old = &models.WorkshopAgenda{} // all days closed
	default:
		return nil, models.AgendaDiff{}, err
	}

	diff := diffAgendas(old, updated)
	if err := svc.Store.UpsertAgenda(ctx, updated); err != nil {
		return nil, models.AgendaDiff{}, fmt.Errorf("error saving agenda for workshop %s: %w", workshopID, err)
	}
	svc.invalidateAvailability(ctx, workshopID)

	if !diff.Empty() && svc.Notifier != nil {
		if err := svc.Notifier.SendWorkshopPush(ctx, workshopID, "Working hours updated", describeDiff(diff), map[string]string{"type": "agenda_update"}); err != nil {
			utils.GetLogger().Warn("agenda update push failed", zap.String("workshopId", workshopID), zap.Error(err))
		}
	}
	return updated, diff, nil
}

// BlockSlot removes one exact slot instant from availability. A slot already
// holding a committed booking cannot be blocked.
func (svc *DefaultAgendaService) BlockSlot(ctx context.Context, workshopID string, date time.Time) (*models.BlockedSlot, error) {
	date = date.In(svc.Loc)
	if !date.After(svc.now()) {
		return nil, scheduling.ErrPastDate
	}

	_, err := svc.Schedulings.FindOneBy(ctx, schedulingRepo.Filter{
		WorkshopID:    workshopID,
		Date:          &date,
		CommittedOnly: true,
	})
	switch {
	case err == nil:
		return nil, scheduling.Rule("slot already holds a confirmed booking")
	case errors.Is(err, schedulingRepo.ErrNotFound):
	default:
		return nil, err
	}

	existing, err := svc.Store.ListBlockedSlots(ctx, workshopID, date, date.Add(time.Second))
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return &existing[0], nil
	}

	slot := &models.BlockedSlot{
		ID:         uuid.NewString(),
		WorkshopID: workshopID,
		Date:       date,
		CreatedAt:  svc.now(),
	}
	if err := svc.Store.AddBlockedSlot(ctx, slot); err != nil {
		return nil, fmt.Errorf("error blocking slot for workshop %s: %w", workshopID, err)
	}
	svc.invalidateAvailability(ctx, workshopID)
	return slot, nil
}

// UnblockSlot revokes a block before its instant passes.
func (svc *DefaultAgendaService) UnblockSlot(ctx context.Context, workshopID string, date time.Time) error {
	if err := svc.Store.RemoveBlockedSlot(ctx, workshopID, date.In(svc.Loc)); err != nil {
		return err
	}
	svc.invalidateAvailability(ctx, workshopID)
	return nil
}

func (svc *DefaultAgendaService) ListBlockedSlots(ctx context.Context, workshopID string, from, to time.Time) ([]models.BlockedSlot, error) {
	return svc.Store.ListBlockedSlots(ctx, workshopID, from, to)
}

// invalidateAvailability drops every cached availability entry for the
// workshop. Template changes touch all dates, so the whole prefix goes.
func (svc *DefaultAgendaService) invalidateAvailability(ctx context.Context, workshopID string) {
	if svc.Cache == nil {
		return
	}
	pattern := fmt.Sprintf("availability:%s:*", workshopID)
	iter := svc.Cache.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := svc.Cache.Del(ctx, iter.Val()).Err(); err != nil {
			utils.GetLogger().Warn("availability cache invalidation failed", zap.String("key", iter.Val()), zap.Error(err))
		}
	}
	if err := iter.Err(); err != nil {
		utils.GetLogger().Warn("availability cache scan failed", zap.String("workshopId", workshopID), zap.Error(err))
	}
}

// validateDay checks one weekday of the template. Closed days carry no
// constraints; open days need a well-formed working window and, when a break
// is present, a well-formed break inside it.
func validateDay(wd time.Weekday, d models.DayAgenda) error {
	if !d.Open {
		return nil
	}
	start, err := time.Parse("15:04", d.StartTime)
	if err != nil {
		return scheduling.Rule(fmt.Sprintf("%s: start time must be HH:MM", wd))
	}
	closing, err := time.Parse("15:04", d.ClosingTime)
	if err != nil {
		return scheduling.Rule(fmt.Sprintf("%s: closing time must be HH:MM", wd))
	}
	if !closing.After(start) {
		return scheduling.Rule(fmt.Sprintf("%s: closing time must be after start time", wd))
	}

	hasBreakStart := d.StartOfBreak != ""
	hasBreakEnd := d.EndOfBreak != ""
	if hasBreakStart != hasBreakEnd {
		return scheduling.Rule(fmt.Sprintf("%s: break needs both a start and an end", wd))
	}
	if !hasBreakStart {
		return nil
	}
	bStart, err := time.Parse("15:04", d.StartOfBreak)
	if err != nil {
		return scheduling.Rule(fmt.Sprintf("%s: break start must be HH:MM", wd))
	}
	bEnd, err := time.Parse("15:04", d.EndOfBreak)
	if err != nil {
		return scheduling.Rule(fmt.Sprintf("%s: break end must be HH:MM", wd))
	}
	if !bEnd.After(bStart) {
		return scheduling.Rule(fmt.Sprintf("%s: break end must be after break start", wd))
	}
	if bStart.Before(start) || bEnd.After(closing) {
		return scheduling.Rule(fmt.Sprintf("%s: break must fall within working hours", wd))
	}
	return nil
}
