package chat

import (
	"context"
	"fmt"
	"time"

	"mindwell/models"
	"mindwell/services/realtime"

	"github.com/golang-jwt/jwt"
)

// RealtimeToken mints a capability token scoped to the session's broadcast
// channel. Requesting a token is the trigger for lazy activation: an overdue
// pending session goes active before the token is served.
func (svc *DefaultLifecycleService) RealtimeToken(ctx context.Context, sessionID, userID string) (string, *models.ChatSession, error) {
	session, err := svc.EnsureActivated(ctx, sessionID)
	if err != nil {
		return "", nil, err
	}

	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":        userID,
		"channel":    realtime.SessionChannel(sessionID),
		"capability": "subscribe,publish",
		"iat":        now.Unix(),
		"exp":        now.Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(svc.JWTSecret))
	if err != nil {
		return "", nil, fmt.Errorf("sign realtime token: %w", err)
	}
	return signed, session, nil
}
