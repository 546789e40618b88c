package notify

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"orvia/models"
	"orvia/rdx"
)

const noticeChannel = "user-notices"

// Notifier delivers user-facing notices. The cart facade only knows this
// interface; tests inject a recorder.
type Notifier interface {
	Notify(ctx context.Context, userID, kind, message string)
}

// RedisNotifier publishes notices to the shared Redis channel so every
// running instance can forward them to its websocket clients.
type RedisNotifier struct{}

func NewRedisNotifier() *RedisNotifier {
	return &RedisNotifier{}
}

func (n *RedisNotifier) Notify(ctx context.Context, userID, kind, message string) {
	notice := models.Notice{
		UserID:    userID,
		Kind:      kind,
		Message:   message,
		CreatedAt: time.Now(),
	}

	data, err := json.Marshal(notice)
	if err != nil {
		log.Printf("[notify] marshal failed: %v", err)
		return
	}

	if err := rdx.Conn.Publish(ctx, noticeChannel, data).Err(); err != nil {
		log.Printf("[notify] publish failed: %v", err)
	}
}

// StartNoticeWorker subscribes to the notice channel and forwards each
// notice into the hub for the addressed user.
func StartNoticeWorker(hub *Hub) {
	ctx := context.Background()
	sub := rdx.Conn.Subscribe(ctx, noticeChannel)
	ch := sub.Channel()

	log.Println("[NoticeWorker] Listening for user notices...")

	for msg := range ch {
		var notice models.Notice
		if err := json.Unmarshal([]byte(msg.Payload), &notice); err != nil {
			log.Printf("[NoticeWorker] Failed to parse notice: %v", err)
			continue
		}
		hub.Push(notice.UserID, []byte(msg.Payload))
	}
}
