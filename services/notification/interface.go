package notification

import (
	"context"
	"fmt"

	profileRepo "mechanio/database/repository/profile"
	workshopRepo "mechanio/database/repository/workshop"
	"mechanio/models"
	"mechanio/utils"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// NotificationService defines methods for sending FCM pushes.
type NotificationService interface {
	SendProfilePush(ctx context.Context, profileID, title, body string, data map[string]string) error
	SendWorkshopPush(ctx context.Context, workshopID, title, body string, data map[string]string) error
	NotifyAdminPool(ctx context.Context, title, body string, data map[string]string) error
	Dispatch(ctx context.Context, msg *models.PushMessage) error
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	profiles  profileRepo.ProfileRepository
	workshops workshopRepo.WorkshopRepository
}

func NewDefaultNotificationService(
	profiles profileRepo.ProfileRepository,
	workshops workshopRepo.WorkshopRepository,
) (*DefaultNotificationService, error) {
	if profiles == nil || workshops == nil {
		return nil, fmt.Errorf("notification service initialization error: profile or workshop repository is nil")
	}
	return &DefaultNotificationService{profiles: profiles, workshops: workshops}, nil
}

// Dispatch routes a queued push message to the right recipient side.
func (s *DefaultNotificationService) Dispatch(ctx context.Context, msg *models.PushMessage) error {
	if msg == nil {
		return nil
	}
	switch msg.Target {
	case models.PushTargetProfile:
		return s.SendProfilePush(ctx, msg.TargetID, msg.Title, msg.Body, msg.Data)
	case models.PushTargetWorkshop:
		return s.SendWorkshopPush(ctx, msg.TargetID, msg.Title, msg.Body, msg.Data)
	case models.PushTargetAdminPool:
		return s.NotifyAdminPool(ctx, msg.Title, msg.Body, msg.Data)
	default:
		utils.GetLogger().Warn("unknown push target", zap.String("target", string(msg.Target)))
		return nil
	}
}

// SendProfilePush looks up a customer's FCM token and sends a push.
func (s *DefaultNotificationService) SendProfilePush(ctx context.Context, profileID, title, body string, data map[string]string) error {
	p, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		return fmt.Errorf("SendProfilePush: could not find profile %s: %w", profileID, err)
	}
	if p.FCMToken == "" {
		return fmt.Errorf("SendProfilePush: profile %s has no FCM token", profileID)
	}
	return send(ctx, p.FCMToken, title, body, withRole(data, "customer"))
}

// SendWorkshopPush looks up a workshop's FCM token and sends a push.
func (s *DefaultNotificationService) SendWorkshopPush(ctx context.Context, workshopID, title, body string, data map[string]string) error {
	w, err := s.workshops.GetByID(ctx, workshopID)
	if err != nil {
		return fmt.Errorf("SendWorkshopPush: could not find workshop %s: %w", workshopID, err)
	}
	if w.FCMToken == "" {
		return fmt.Errorf("SendWorkshopPush: workshop %s has no FCM token", workshopID)
	}
	return send(ctx, w.FCMToken, title, body, withRole(data, "workshop"))
}

// NotifyAdminPool fans a push out to every registered administrator. Admins
// without a token are skipped; the first send failure is returned after the
// whole pool was attempted.
func (s *DefaultNotificationService) NotifyAdminPool(ctx context.Context, title, body string, data map[string]string) error {
	admins, err := s.profiles.ListAdmins(ctx)
	if err != nil {
		return fmt.Errorf("NotifyAdminPool: could not list admins: %w", err)
	}
	var firstErr error
	for _, a := range admins {
		if a.FCMToken == "" {
			continue
		}
		if err := send(ctx, a.FCMToken, title, body, withRole(data, "admin")); err != nil {
			utils.GetLogger().Warn("admin push failed", zap.String("adminId", a.ID), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func send(ctx context.Context, token, title, body string, data map[string]string) error {
	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "high_priority",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	}
	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send FCM message: %w", err)
	}
	return nil
}

func withRole(data map[string]string, role string) map[string]string {
	if data == nil {
		data = map[string]string{}
	}
	if _, ok := data["role"]; !ok {
		data["role"] = role
	}
	return data
}
