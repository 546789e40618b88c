package pay

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"orvia/models"
	"orvia/rdx"
	"orvia/utils"
)

// Sessions live in Redis with a TTL; an expired session simply cannot be
// confirmed and the order stays pending until cancelled.
const sessionTTL = 30 * time.Minute

func sessionKey(sessionID string) string {
	return "paysession:" + sessionID
}

// CreateSession opens a payment session for a pending order.
func CreateSession(ctx context.Context, order models.Order) (models.PaymentSession, error) {
	session := models.PaymentSession{
		SessionID: utils.GetUUID(),
		OrderID:   order.OrderID,
		UserID:    order.UserID,
		Amount:    order.Total,
		CreatedAt: time.Now(),
	}

	data, err := json.Marshal(session)
	if err != nil {
		return models.PaymentSession{}, fmt.Errorf("marshal session: %w", err)
	}

	if err := rdx.Conn.Set(ctx, sessionKey(session.SessionID), data, sessionTTL).Err(); err != nil {
		return models.PaymentSession{}, fmt.Errorf("store session: %w", err)
	}
	return session, nil
}

// GetSession loads a live session by id.
func GetSession(ctx context.Context, sessionID string) (models.PaymentSession, error) {
	data, err := rdx.Conn.Get(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return models.PaymentSession{}, fmt.Errorf("session not found: %w", err)
	}

	var session models.PaymentSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return models.PaymentSession{}, fmt.Errorf("decode session: %w", err)
	}
	return session, nil
}

// CloseSession removes a session once its callback has been processed.
func CloseSession(ctx context.Context, sessionID string) {
	rdx.Conn.Del(ctx, sessionKey(sessionID))
}
