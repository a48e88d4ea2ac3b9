package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogLogger_Log(t *testing.T) {
	tests := []struct {
		name          string
		event         Event
		wantEventType string
		wantHasError  bool
		wantRecordID  bool
	}{
		{
			name: "time in",
			event: Event{
				EmployeeID: uuid.New(),
				EventType:  EventTimeIn,
				RecordID:   uuid.NewString(),
				Verified:   true,
				Success:    true,
				Metadata:   map[string]string{"confidence_score": "0.97"},
			},
			wantEventType: string(EventTimeIn),
			wantRecordID:  true,
		},
		{
			name: "time out without verification",
			event: Event{
				EmployeeID: uuid.New(),
				EventType:  EventTimeOut,
				RecordID:   uuid.NewString(),
				Success:    true,
			},
			wantEventType: string(EventTimeOut),
			wantRecordID:  true,
		},
		{
			name: "rejected clock action",
			event: Event{
				EmployeeID: uuid.New(),
				EventType:  EventClockRejected,
				Success:    false,
				Error:      "ALREADY_CLOCKED_IN",
			},
			wantEventType: string(EventClockRejected),
			wantHasError:  true,
		},
		{
			name: "face registration failure",
			event: Event{
				EmployeeID: uuid.New(),
				EventType:  EventFaceRegisterFailed,
				Success:    false,
				Error:      "No face detected in the provided image.",
			},
			wantEventType: string(EventFaceRegisterFailed),
			wantHasError:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			auditLogger := NewSlogLogger(logger)
			err := auditLogger.Log(context.Background(), tt.event)
			require.NoError(t, err)

			output := buf.String()
			assert.Contains(t, output, tt.wantEventType)
			assert.Contains(t, output, tt.event.EmployeeID.String())
			assert.Contains(t, output, "audit_event")
			assert.Contains(t, output, `"component":"audit"`)

			if tt.wantHasError {
				assert.Contains(t, output, tt.event.Error)
			}
			if tt.wantRecordID {
				assert.Contains(t, output, tt.event.RecordID)
			}
		})
	}
}

func TestSlogLogger_Log_GeneratesIDAndTimestamp(t *testing.T) {
	var buf bytes.Buffer
	auditLogger := NewSlogLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	err := auditLogger.Log(context.Background(), Event{
		EmployeeID: uuid.New(),
		EventType:  EventTimeIn,
		Success:    true,
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.NotEmpty(t, lines)

	var logEntry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &logEntry))

	eventID, ok := logEntry["event_id"].(string)
	require.True(t, ok)
	_, err = uuid.Parse(eventID)
	assert.NoError(t, err)

	var data Event
	require.NoError(t, json.Unmarshal([]byte(logEntry["event_data"].(string)), &data))
	assert.False(t, data.Timestamp.IsZero())
}

func TestSlogLogger_Log_UsesProvidedIDAndTimestamp(t *testing.T) {
	var buf bytes.Buffer
	auditLogger := NewSlogLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	expectedID := uuid.New()
	expectedTimestamp := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	err := auditLogger.Log(context.Background(), Event{
		ID:         expectedID,
		Timestamp:  expectedTimestamp,
		EmployeeID: uuid.New(),
		EventType:  EventFaceRegistered,
		Success:    true,
	})
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, expectedID.String())
	assert.Contains(t, output, "2024-01-15T10:30:00Z")
}

func TestNoOpLogger_Log(t *testing.T) {
	logger := &NoOpLogger{}

	for i := 0; i < 10; i++ {
		err := logger.Log(context.Background(), Event{EmployeeID: uuid.New(), EventType: EventTimeOut})
		assert.NoError(t, err)
	}
}
