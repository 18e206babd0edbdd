package notification

import (
	"context"
	"fmt"

	psychologistRepo "mindwell/database/repository/psychologist"
	userRepo "mindwell/database/repository/user"
	"mindwell/utils"

	"firebase.google.com/go/v4/messaging"
)

// NotificationService defines methods for sending FCM pushes.
type NotificationService interface {
	SendUserPush(ctx context.Context, userID, title, body string, data map[string]string) error
	SendPsychologistPush(ctx context.Context, psychologistID, title, body string, data map[string]string) error
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	Users         userRepo.UserRepository
	Psychologists psychologistRepo.PsychologistRepository
}

func NewDefaultNotificationService(
	users userRepo.UserRepository,
	psychologists psychologistRepo.PsychologistRepository,
) (*DefaultNotificationService, error) {
	if users == nil || psychologists == nil {
		return nil, fmt.Errorf("notification service initialization error: user or psychologist repository is nil")
	}
	return &DefaultNotificationService{
		Users:         users,
		Psychologists: psychologists,
	}, nil
}

// SendUserPush looks up a client's FCM token and sends a push.
func (s *DefaultNotificationService) SendUserPush(
	ctx context.Context,
	userID, title, body string,
	data map[string]string,
) error {
	u, err := s.Users.GetByID(userID)
	if err != nil {
		return fmt.Errorf("SendUserPush: could not find user %s: %w", userID, err)
	}
	if u.FCMToken == "" {
		return fmt.Errorf("SendUserPush: user %s has no FCM token", userID)
	}
	return s.send(ctx, u.FCMToken, title, body, data)
}

// SendPsychologistPush looks up a psychologist's FCM token and sends a push.
func (s *DefaultNotificationService) SendPsychologistPush(
	ctx context.Context,
	psychologistID, title, body string,
	data map[string]string,
) error {
	p, err := s.Psychologists.GetByID(psychologistID)
	if err != nil {
		return fmt.Errorf("SendPsychologistPush: could not find psychologist %s: %w", psychologistID, err)
	}
	if p.FCMToken == "" {
		return fmt.Errorf("SendPsychologistPush: psychologist %s has no FCM token", psychologistID)
	}
	return s.send(ctx, p.FCMToken, title, body, data)
}

func (s *DefaultNotificationService) send(ctx context.Context, token, title, body string, data map[string]string) error {
	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}
	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send FCM message: %w", err)
	}
	return nil
}
