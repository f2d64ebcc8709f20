package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	agendaRepo "mechanio/database/repository/agenda"
	profileRepo "mechanio/database/repository/profile"
	schedulingRepo "mechanio/database/repository/scheduling"
	workshopRepo "mechanio/database/repository/workshop"
	"mechanio/models"
	"mechanio/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Actor is the authenticated identity performing a workflow operation.
type Actor struct {
	ID   string
	Role models.Role
}

// RegisterRequest is the customer booking payload.
type RegisterRequest struct {
	WorkshopID string    `json:"workshop_id" binding:"required"`
	VehicleID  string    `json:"vehicle_id" binding:"required"`
	ServiceIDs []string  `json:"service_ids" binding:"required"`
	Date       time.Time `json:"date" binding:"required"`
}

// BudgetRequest is the workshop quote payload.
type BudgetRequest struct {
	Services                   []models.BudgetService `json:"services" binding:"required"`
	DiagnosticValue            float64                `json:"diagnostic_value"`
	Images                     []string               `json:"images"`
	EstimatedTimeForCompletion string                 `json:"estimated_time_for_completion"`
}

// AdminDecision is the administrator's dispute resolution.
type AdminDecision string

const (
	DecisionApprove          AdminDecision = "approve"
	DecisionApprovePartially AdminDecision = "approve_partially"
	DecisionReprove          AdminDecision = "reprove"
)

// SchedulingService validates and applies actor-gated status transitions and
// computes availability. All scheduling mutations flow through here.
type SchedulingService interface {
	GetAvailability(ctx context.Context, actor Actor, workshopID string, date time.Time, serviceIDs []string) (models.DayAvailability, error)
	Register(ctx context.Context, actor Actor, req RegisterRequest) (*models.Scheduling, error)
	Delete(ctx context.Context, actor Actor, schedulingID string) error
	ConfirmScheduling(ctx context.Context, actor Actor, schedulingID string, approve bool) (*models.Scheduling, error)
	SuggestTime(ctx context.Context, actor Actor, schedulingID string, suggested time.Time) (*models.Scheduling, error)
	SendBudget(ctx context.Context, actor Actor, schedulingID string, req BudgetRequest) (*models.Scheduling, error)
	ConfirmBudget(ctx context.Context, actor Actor, schedulingID string, approve bool, keptServiceIDs []string) (*models.Scheduling, error)
	ChangeSchedulingStatus(ctx context.Context, actor Actor, schedulingID string, target models.Status) (*models.Scheduling, error)
	ConfirmPayment(ctx context.Context, actor Actor, schedulingID string, approved bool) (*models.Scheduling, error)
	ConfirmService(ctx context.Context, actor Actor, schedulingID string, approve bool, reason string, images []string) (*models.Scheduling, error)
	DisputeDisapprovedService(ctx context.Context, actor Actor, schedulingID string, argument string, images []string) (*models.Scheduling, error)
	ApproveOrReproveService(ctx context.Context, actor Actor, schedulingID string, decision AdminDecision, approvedServiceIDs []string) (*models.Scheduling, error)
	SuggestFreeRepair(ctx context.Context, actor Actor, schedulingID string) (*models.Scheduling, error)
	ScheduleFreeRepair(ctx context.Context, actor Actor, schedulingID string, date time.Time) (*models.Scheduling, error)
}

// DefaultSchedulingWorkflow is the production implementation.
type DefaultSchedulingWorkflow struct {
	Repo      schedulingRepo.ScheduleRepository
	Agenda    agendaRepo.AgendaStore
	Workshops workshopRepo.WorkshopRepository
	Profiles  profileRepo.ProfileRepository
	Events    Publisher
	Cache     *redis.Client
	CacheTTL  time.Duration
	Calc      Calculator

	// Now is the clock; nil means time.Now. Injected for deterministic tests.
	Now func() time.Time

	Logger *zap.Logger
}

func (svc *DefaultSchedulingWorkflow) now() time.Time {
	if svc.Now != nil {
		return svc.Now()
	}
	return time.Now()
}

func (svc *DefaultSchedulingWorkflow) logger() *zap.Logger {
	if svc.Logger != nil {
		return svc.Logger
	}
	return utils.GetLogger()
}

// load fetches the scheduling and enforces that the actor owns the
// role-appropriate side of the record. Admins may act on any record.
func (svc *DefaultSchedulingWorkflow) load(ctx context.Context, actor Actor, schedulingID string) (*models.Scheduling, error) {
	s, err := svc.Repo.FindByID(ctx, schedulingID)
	if err != nil {
		if errors.Is(err, schedulingRepo.ErrNotFound) {
			return nil, ErrSchedulingNotFound
		}
		return nil, err
	}
	switch actor.Role {
	case models.RoleCustomer:
		if s.ProfileID != actor.ID {
			return nil, ErrNotOwner
		}
	case models.RoleWorkshop:
		if s.WorkshopID != actor.ID {
			return nil, ErrNotOwner
		}
	case models.RoleAdmin:
		// Administrators act on any record.
	default:
		return nil, ErrNotPermitted
	}
	return s, nil
}

// apply resolves the transition for (action, actor role, current status),
// lets mutate adjust the record, persists it once with the final status of the
// chain, and emits one status event per step. The description and push ride on
// the first step; automatic follow-up steps carry their own titles.
func (svc *DefaultSchedulingWorkflow) apply(
	ctx context.Context,
	s *models.Scheduling,
	action Action,
	actor Actor,
	description string,
	push *models.PushMessage,
	mutate func(*models.Scheduling),
) error {
	t, err := findTransition(action, actor.Role, s.Status)
	if err != nil {
		return err
	}

	steps := t.steps()
	if mutate != nil {
		mutate(s)
	}
	s.Status = steps[len(steps)-1]
	s.UpdatedAt = svc.now()

	if err := svc.Repo.Update(ctx, s); err != nil {
		if errors.Is(err, schedulingRepo.ErrSlotTaken) {
			return ErrSlotInUse
		}
		return fmt.Errorf("error persisting transition %s for scheduling %s: %w", action, s.ID, err)
	}

	for i, st := range steps {
		ev := StatusEvent{
			SchedulingID: s.ID,
			Status:       st,
			Title:        st.Title(),
			Description:  st.Title(),
			OccurredAt:   svc.now(),
		}
		if i == 0 {
			if description != "" {
				ev.Description = description
			}
			ev.Push = push
		}
		svc.publish(ctx, ev)
	}
	return nil
}
