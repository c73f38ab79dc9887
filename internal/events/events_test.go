package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lasoiree/venue-api/internal/domain"
	"github.com/lasoiree/venue-api/internal/events"
)

func TestHub_DeliversOnlyToVenueSubscribers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := events.NewHub()
	go hub.Run(ctx)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Serve(conn, 1, 7)
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Subscribers(1) == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Publish(ctx, domain.Event{Type: domain.EventBookingCreated, VenueID: 2, VenueCode: "VEN002"}))
	require.NoError(t, hub.Publish(ctx, domain.Event{Type: domain.EventBookingJoined, VenueID: 1, VenueCode: "VEN001", BookingID: 3}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, message, err := conn.ReadMessage()
	require.NoError(t, err)

	var got domain.Event
	require.NoError(t, json.Unmarshal(message, &got))
	assert.Equal(t, domain.EventBookingJoined, got.Type)
	assert.Equal(t, "VEN001", got.VenueCode)
	assert.EqualValues(t, 3, got.BookingID)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.Subscribers(1) == 0 }, time.Second, 10*time.Millisecond)
}

func TestHub_PublishAfterShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := events.NewHub()
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	cancel()
	<-stopped

	for i := 0; i < 300; i++ {
		require.NoError(t, hub.Publish(context.Background(), domain.Event{Type: domain.EventCartUpdated}))
	}
}

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
	err      error
	closed   bool
}

func (c *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	c.exchange, c.key, c.msg = exchange, key, msg
	return c.err
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

func TestRabbitPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	pub := events.NewRabbitPublisher(ch, "venue.events")

	at := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	evt := domain.Event{Type: domain.EventBookingEnded, VenueCode: "VEN001", TableNumber: 4, BookingID: 11, ActorID: 5, At: at}
	require.NoError(t, pub.Publish(context.Background(), evt))

	assert.Equal(t, "venue.events", ch.exchange)
	assert.Equal(t, "venue.VEN001.booking.ended", ch.key)
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Equal(t, at, ch.msg.Timestamp)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(ch.msg.Body, &body))
	assert.Equal(t, "booking.ended", body["type"])
	assert.Equal(t, "VEN001", body["venue_id"])
	assert.EqualValues(t, 4, body["table_number"])

	require.NoError(t, pub.Close())
	assert.True(t, ch.closed)
}

func TestMulti_JoinsErrors(t *testing.T) {
	broken := &fakeChannel{err: errors.New("channel closed")}
	healthy := &fakeChannel{}

	multi := events.Multi{
		events.NewRabbitPublisher(broken, "a"),
		events.Nop{},
		events.NewRabbitPublisher(healthy, "b"),
	}

	err := multi.Publish(context.Background(), domain.Event{Type: domain.EventCartUpdated, VenueCode: "VEN009"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel closed")
	assert.Equal(t, "venue.VEN009.cart.updated", healthy.key)
}
