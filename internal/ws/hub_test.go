package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/bundyclock/internal/domain"
)

func startHub(t *testing.T) *Hub {
	t.Helper()

	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func TestNewHub(t *testing.T) {
	hub := NewHub()

	assert.NotNil(t, hub)
	assert.NotNil(t, hub.clients)
	assert.NotNil(t, hub.broadcast)
	assert.NotNil(t, hub.register)
	assert.NotNil(t, hub.unregister)
	assert.NotNil(t, hub.done)
}

func TestHub_AddAndRemoveClient(t *testing.T) {
	hub := startHub(t)

	client := &Client{hub: hub, send: make(chan []byte, 1)}

	hub.register <- client
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, hub.ConnectedClients())

	hub.unregister <- client
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, hub.ConnectedClients())

	_, open := <-client.send
	assert.False(t, open, "send channel should be closed on unregister")
}

func TestHub_Publish(t *testing.T) {
	hub := startHub(t)
	employeeID := uuid.New()

	client := &Client{hub: hub, send: make(chan []byte, 10)}
	hub.register <- client
	time.Sleep(50 * time.Millisecond)

	hub.Publish(employeeID, EventTimeIn, map[string]string{"type": "TIME_IN"})

	select {
	case msg := <-client.send:
		var event Event
		require.NoError(t, json.Unmarshal(msg, &event))
		assert.Equal(t, EventTimeIn, event.Type)
		assert.Equal(t, employeeID, event.EmployeeID)
		assert.False(t, event.Timestamp.IsZero())
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}
}

func TestHub_EmployeeFilter(t *testing.T) {
	hub := startHub(t)
	alice, bob := uuid.New(), uuid.New()

	aliceOnly := &Client{hub: hub, employeeID: alice, send: make(chan []byte, 10)}
	everyone := &Client{hub: hub, send: make(chan []byte, 10)}

	hub.register <- aliceOnly
	hub.register <- everyone
	time.Sleep(50 * time.Millisecond)

	hub.Publish(bob, EventTimeOut, nil)

	select {
	case <-everyone.send:
	case <-time.After(time.Second):
		t.Fatal("unfiltered client should receive every event")
	}

	select {
	case <-aliceOnly.send:
		t.Fatal("filtered client should not receive another employee's event")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHub_DropsSlowConsumer(t *testing.T) {
	hub := startHub(t)

	slow := &Client{hub: hub, send: make(chan []byte)}
	hub.register <- slow
	time.Sleep(50 * time.Millisecond)

	hub.Publish(uuid.New(), EventTimeIn, nil)
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, 0, hub.ConnectedClients())
}

func TestHub_RunStopsOnCancel(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	client := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.register <- client

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	_, open := <-client.send
	assert.False(t, open)
}

func TestHub_LeaveAndJoinAfterStop(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())

	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	client := &Client{hub: hub, send: make(chan []byte, 1)}
	require.True(t, hub.join(client))

	cancel()
	<-stopped

	left := make(chan struct{})
	go func() {
		hub.leave(client)
		close(left)
	}()

	select {
	case <-left:
	case <-time.After(time.Second):
		t.Fatal("leave blocked after the hub stopped")
	}

	late := &Client{hub: hub, send: make(chan []byte, 1)}
	assert.False(t, hub.join(late))
	assert.Equal(t, 0, hub.ConnectedClients())
}

func TestUpgradeMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/live", UpgradeMiddleware(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	tests := []struct {
		name       string
		target     string
		upgrade    bool
		wantStatus int
	}{
		{name: "plain http", target: "/live", wantStatus: fiber.StatusUpgradeRequired},
		{name: "bad filter", target: "/live?employeeId=nope", upgrade: true, wantStatus: fiber.StatusBadRequest},
		{name: "upgrade", target: "/live?employeeId=" + uuid.NewString(), upgrade: true, wantStatus: fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.target, nil)
			if tt.upgrade {
				req.Header.Set("Connection", "Upgrade")
				req.Header.Set("Upgrade", "websocket")
			}

			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestHub_PublishAttendance(t *testing.T) {
	hub := startHub(t)

	client := &Client{hub: hub, send: make(chan []byte, 10)}
	hub.register <- client
	time.Sleep(50 * time.Millisecond)

	employeeID := uuid.New()
	hub.PublishAttendance(&domain.AttendanceEvent{ID: uuid.New(), EmployeeID: employeeID, Type: domain.EventTimeOut})

	select {
	case msg := <-client.send:
		var event struct {
			Type EventType              `json:"type"`
			Data domain.AttendanceEvent `json:"data"`
		}
		require.NoError(t, json.Unmarshal(msg, &event))
		assert.Equal(t, EventTimeOut, event.Type)
		assert.Equal(t, employeeID, event.Data.EmployeeID)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}
}
