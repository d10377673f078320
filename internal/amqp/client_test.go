package amqp

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/fundsio/funds/internal/notification"
)

func TestRoutingKey_RoundTrip(t *testing.T) {
	owner := uuid.New()

	got, err := OwnerFromRoutingKey(RoutingKey(owner))
	require.NoError(t, err)
	assert.Equal(t, owner, got)
}

func TestOwnerFromRoutingKey_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{name: "WrongPrefix", key: "expense." + uuid.NewString()},
		{name: "NotUUID", key: "notification.abc"},
		{name: "Empty", key: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := OwnerFromRoutingKey(tt.key)
			assert.Error(t, err)
		})
	}
}

func TestHandleDelivery_ForwardsToLocalPublisher(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	owner := uuid.New()
	related := uuid.New()
	n := &notification.Notification{
		ID:        uuid.New(),
		OwnerID:   owner,
		Message:   "Investing progress ($150) below min constraint ($200)",
		Type:      notification.TypeGoal,
		RelatedID: &related,
	}

	body, err := encodeEvent(n)
	require.NoError(t, err)

	local := notification.NewMockPublisher(ctrl)
	local.EXPECT().
		Publish(gomock.Any(), owner, gomock.Any()).
		Do(func(_ context.Context, _ uuid.UUID, got *notification.Notification) {
			assert.Equal(t, n.ID, got.ID)
			assert.Equal(t, n.Message, got.Message)
			assert.Equal(t, notification.TypeGoal, got.Type)
			require.NotNil(t, got.RelatedID)
			assert.Equal(t, related, *got.RelatedID)
		})

	handleDelivery(context.Background(), local, RoutingKey(owner), body)
}

func TestHandleDelivery_DropsMalformed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No expectations: the local publisher must not be called.
	local := notification.NewMockPublisher(ctrl)

	handleDelivery(context.Background(), local, RoutingKey(uuid.New()), []byte("not json"))
	handleDelivery(context.Background(), local, "bogus", []byte(`{"event":"newNotification"}`))
	handleDelivery(context.Background(), local, RoutingKey(uuid.New()), []byte(`{"event":"other","data":{}}`))
}
