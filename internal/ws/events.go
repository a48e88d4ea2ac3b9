package ws

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventTimeIn         EventType = "attendance.time_in"
	EventTimeOut        EventType = "attendance.time_out"
	EventFaceRegistered EventType = "face.registered"
)

type Event struct {
	EmployeeID uuid.UUID   `json:"employee_id"`
	Type       EventType   `json:"type"`
	Data       interface{} `json:"data"`
	Timestamp  time.Time   `json:"timestamp"`
}
