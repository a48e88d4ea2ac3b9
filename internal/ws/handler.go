package ws

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const employeeFilterLocal = "ws_employee_id"

// Handler serves the live feed. UpgradeMiddleware must run first.
func Handler(hub *Hub) fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		employeeID, _ := c.Locals(employeeFilterLocal).(uuid.UUID)

		client := &Client{
			hub:        hub,
			conn:       c,
			employeeID: employeeID,
			send:       make(chan []byte, 256),
		}

		if !hub.join(client) {
			_ = c.Close()
			return
		}

		go client.WritePump()
		client.ReadPump()
	})
}

// UpgradeMiddleware rejects plain HTTP requests and parses the optional
// employeeId query filter.
func UpgradeMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		if raw := c.Query("employeeId"); raw != "" {
			employeeID, err := uuid.Parse(raw)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "employeeId must be a uuid")
			}
			c.Locals(employeeFilterLocal, employeeID)
		}

		c.Locals("allowed", true)
		return c.Next()
	}
}
