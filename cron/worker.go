package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"mechanio/config"
	agendaRepo "mechanio/database/repository/agenda"
	historyRepo "mechanio/database/repository/history"
	schedulingRepo "mechanio/database/repository/scheduling"
	"mechanio/models"
	"mechanio/services/notification"
	"mechanio/services/scheduling"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// TypeBlockedSlotPrune and TypeAppointmentReminders are the periodic jobs
// registered on the asynq scheduler.
const (
	TypeBlockedSlotPrune     = "agenda:prune_blocked"
	TypeAppointmentReminders = "scheduling:reminders"
)

// Deps bundles everything the background worker needs.
type Deps struct {
	History     historyRepo.HistoryRecorder
	Agenda      agendaRepo.AgendaStore
	Schedulings schedulingRepo.ScheduleRepository
	Notifier    notification.NotificationService
	Loc         *time.Location
}

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitWorker runs the async worker in background. It consumes status events
// (history append plus push dispatch) and the periodic maintenance jobs.
func InitWorker(deps Deps) {
	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(scheduling.TypeStatusEvent, handleStatusEvent(deps))
	mux.HandleFunc(TypeBlockedSlotPrune, handleBlockedSlotPrune(deps))
	mux.HandleFunc(TypeAppointmentReminders, handleAppointmentReminders(deps))

	go monitorRedisConnection()

	go func() {
		log.Println("[Worker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[Worker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[Worker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

// InitScheduler registers the periodic jobs: hourly blocked-slot pruning and
// the evening reminder sweep for next-day appointments.
func InitScheduler() {
	sched := asynq.NewScheduler(redisOpts(), &asynq.SchedulerOpts{Location: config.Location})

	if _, err := sched.Register("0 * * * *", asynq.NewTask(TypeBlockedSlotPrune, nil)); err != nil {
		log.Fatalf("[Scheduler] Failed to register blocked-slot pruning: %v", err)
	}
	if _, err := sched.Register("0 18 * * *", asynq.NewTask(TypeAppointmentReminders, nil)); err != nil {
		log.Fatalf("[Scheduler] Failed to register appointment reminders: %v", err)
	}

	go func() {
		if err := sched.Run(); err != nil {
			log.Fatalf("[Scheduler] Failed to start: %v", err)
		}
	}()
}

// handleStatusEvent appends the history entry for one status change and
// dispatches its push, if any. The history append is the part that must not
// be lost; a push failure is logged but does not fail the task, so asynq
// retries never duplicate history entries.
func handleStatusEvent(deps Deps) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var ev scheduling.StatusEvent
		if err := json.Unmarshal(task.Payload(), &ev); err != nil {
			log.Printf("[StatusEvent] Invalid payload: %v", err)
			return err
		}

		entry := &models.SchedulingHistory{
			ID:           uuid.NewString(),
			SchedulingID: ev.SchedulingID,
			Status:       ev.Status,
			Title:        ev.Title,
			Description:  ev.Description,
			CreatedAt:    ev.OccurredAt,
		}
		if err := deps.History.Append(ctx, entry); err != nil {
			return fmt.Errorf("error appending history for scheduling %s: %w", ev.SchedulingID, err)
		}

		if ev.Push != nil {
			if err := deps.Notifier.Dispatch(ctx, ev.Push); err != nil {
				log.Printf("[StatusEvent] Push dispatch failed for scheduling %s: %v", ev.SchedulingID, err)
			}
		}
		return nil
	}
}

// handleBlockedSlotPrune drops blocks whose instant has already passed.
func handleBlockedSlotPrune(deps Deps) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		removed, err := deps.Agenda.PruneBlockedBefore(ctx, time.Now().In(deps.Loc))
		if err != nil {
			return fmt.Errorf("error pruning blocked slots: %w", err)
		}
		if removed > 0 {
			log.Printf("[BlockedSlotPrune] Removed %d stale blocks", removed)
		}
		return nil
	}
}

// handleAppointmentReminders pushes a reminder to every customer with a
// confirmed appointment on the following day.
func handleAppointmentReminders(deps Deps) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		now := time.Now().In(deps.Loc)
		from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, deps.Loc).AddDate(0, 0, 1)
		to := from.AddDate(0, 0, 1)

		upcoming, err := deps.Schedulings.FindBy(ctx, schedulingRepo.Filter{
			Statuses: []models.Status{models.StatusScheduled},
			From:     &from,
			To:       &to,
		})
		if err != nil {
			return fmt.Errorf("error listing next-day appointments: %w", err)
		}

		for i := range upcoming {
			s := &upcoming[i]
			body := fmt.Sprintf("Reminder: %s expects %s tomorrow at %s.",
				s.Workshop.Name, s.Vehicle.Plate, s.Date.In(deps.Loc).Format("15:04"))
			data := map[string]string{"schedulingId": s.ID, "type": "appointment_reminder"}
			if err := deps.Notifier.SendProfilePush(ctx, s.ProfileID, "Appointment tomorrow", body, data); err != nil {
				log.Printf("[Reminders] Push failed for scheduling %s: %v", s.ID, err)
			}
		}
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[Worker] Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
