package infrastructure

import (
	"context"
	"errors"
	"testing"
	"time"

	"courtside/events"
	"courtside/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMessagePublisher struct {
	mock.Mock
}

func (m *MockMessagePublisher) Publish(ctx context.Context, subject string, data []byte) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}

func TestMapEventToSubject(t *testing.T) {
	assert.Equal(t, "courtside.balance_change", MapEventToSubject(events.BalanceChangeEvent{}))
	assert.Equal(t, "courtside.user_joined", MapEventToSubject(events.UserJoinedEvent{}))
	assert.Equal(t, "courtside.wager_settled", MapEventToSubject(events.WagerSettledEvent{}))
	assert.Equal(t, []string{
		"courtside.balance_change",
		"courtside.user_joined",
		"courtside.wager_settled",
	}, AllSubjects())
}

func TestNATSEventPublisher_Publish(t *testing.T) {
	client := new(MockMessagePublisher)
	publisher := NewNATSEventPublisher(client)
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	publisher.now = func() time.Time { return fixed }

	var sent []byte
	client.On("Publish", mock.Anything, "courtside.wager_settled", mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(2).([]byte) }).
		Return(nil).Once()

	err := publisher.Publish(context.Background(), events.WagerSettledEvent{
		UserID: "u1",
		Game:   models.GameHorse,
		Kind:   models.TransactionKindHorseWin,
		Stake:  100,
		Payout: 300,
	})
	require.NoError(t, err)
	client.AssertExpectations(t)

	var envelope EventEnvelope
	require.NoError(t, json.Unmarshal(sent, &envelope))
	assert.Equal(t, events.EventTypeWagerSettled, envelope.EventType)
	assert.Equal(t, "courtside", envelope.SourceService)
	assert.True(t, envelope.Timestamp.Equal(fixed))
	assert.Len(t, envelope.EventID, 26)

	var payload events.WagerSettledEvent
	require.NoError(t, json.Unmarshal(envelope.Payload, &payload))
	assert.Equal(t, "u1", payload.UserID)
	assert.Equal(t, int64(300), payload.Payout)
}

func TestNATSEventPublisher_PublishError(t *testing.T) {
	client := new(MockMessagePublisher)
	client.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("no servers")).Once()

	err := NewNATSEventPublisher(client).Publish(context.Background(), events.UserJoinedEvent{UserID: "u1"})
	assert.ErrorContains(t, err, "no servers")
}

func TestNATSEventPublisher_ForwardsBusEvents(t *testing.T) {
	client := new(MockMessagePublisher)
	client.On("Publish", mock.Anything, "courtside.balance_change", mock.Anything).Return(nil).Once()

	bus := events.NewBus()
	NewNATSEventPublisher(client).Subscribe(bus)
	bus.Publish(events.BalanceChangeEvent{UserID: "u1", Kind: models.TransactionKindDaily, Amount: 337})
	bus.Wait()

	client.AssertExpectations(t)
}

func TestNATSClient_PublishWithoutConnection(t *testing.T) {
	c := NewNATSClient("nats://127.0.0.1:4222")
	assert.False(t, c.IsConnected())
	assert.Error(t, c.Publish(context.Background(), "courtside.test", nil))
	assert.NoError(t, c.Close())
}

func TestNATSEventPublisher_SubscribeCoversAllSubjects(t *testing.T) {
	client := new(MockMessagePublisher)
	for _, subject := range AllSubjects() {
		client.On("Publish", mock.Anything, subject, mock.Anything).Return(nil).Once()
	}

	bus := events.NewBus()
	NewNATSEventPublisher(client).Subscribe(bus)
	bus.Publish(events.BalanceChangeEvent{UserID: "u1", Kind: models.TransactionKindDaily, Amount: 337})
	bus.Publish(events.UserJoinedEvent{UserID: "u1", Granted: 1000})
	bus.Publish(events.WagerSettledEvent{UserID: "u1", Game: models.GameBet, Kind: models.TransactionKindBetLose, Stake: 100})
	bus.Wait()

	client.AssertExpectations(t)
	client.AssertNumberOfCalls(t, "Publish", len(ForwardedEventTypes))
}
