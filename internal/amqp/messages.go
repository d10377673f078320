package amqp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/fundsio/funds/internal/notification"
)

const routingPrefix = "notification."

// RoutingKey is the topic key a notification for the owner is published under.
func RoutingKey(ownerID uuid.UUID) string {
	return routingPrefix + ownerID.String()
}

// OwnerFromRoutingKey reverses RoutingKey.
func OwnerFromRoutingKey(key string) (uuid.UUID, error) {
	raw, ok := strings.CutPrefix(key, routingPrefix)
	if !ok {
		return uuid.Nil, fmt.Errorf("unexpected routing key %q", key)
	}

	return uuid.Parse(raw)
}

func encodeEvent(n *notification.Notification) ([]byte, error) {
	return json.Marshal(notification.NewEvent(n))
}

func decodeEvent(body []byte) (*notification.Notification, error) {
	var ev notification.Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, err
	}

	if ev.Name != notification.EventNew {
		return nil, fmt.Errorf("unexpected event %q", ev.Name)
	}

	return ev.Data.Notification(), nil
}
