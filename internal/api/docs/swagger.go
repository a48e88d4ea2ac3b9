package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
	"github.com/go-swagno/swagno/components/parameter"
)

// AttendanceEventData represents a single ledger entry
type AttendanceEventData struct {
	ID              string   `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	EmployeeID      string   `json:"employee_id" example:"7c9e6679-7425-40de-944b-e07fc1f90ae7"`
	Timestamp       string   `json:"timestamp" example:"2024-03-04T08:00:00+08:00"`
	Type            string   `json:"type" example:"TIME_IN"`
	Verified        bool     `json:"verified" example:"true"`
	ConfidenceScore *float64 `json:"confidence_score,omitempty" example:"0.93"`
	Notes           *string  `json:"notes,omitempty" example:"No match found."`
}

// AttendanceEventResponse wraps one event in the response envelope
type AttendanceEventResponse struct {
	Success   bool                `json:"success" example:"true"`
	Message   string              `json:"message" example:"Time-In recorded"`
	Data      AttendanceEventData `json:"data"`
	Timestamp string              `json:"timestamp" example:"2024-03-04T08:00:00Z"`
}

// AttendanceListResponse wraps a list of events, newest first
type AttendanceListResponse struct {
	Success   bool                  `json:"success" example:"true"`
	Message   string                `json:"message" example:"Attendance events"`
	Data      []AttendanceEventData `json:"data"`
	Timestamp string                `json:"timestamp" example:"2024-03-04T08:00:00Z"`
}

// ClockStateData is the derived state for one employee
type ClockStateData struct {
	EmployeeID  string               `json:"employee_id" example:"7c9e6679-7425-40de-944b-e07fc1f90ae7"`
	State       string               `json:"state" example:"CLOCKED_IN"`
	LatestEvent *AttendanceEventData `json:"latest_event,omitempty"`
}

// ClockStateResponse wraps the derived state
type ClockStateResponse struct {
	Success   bool           `json:"success" example:"true"`
	Message   string         `json:"message" example:"Current state"`
	Data      ClockStateData `json:"data"`
	Timestamp string         `json:"timestamp" example:"2024-03-04T08:00:00Z"`
}

// EmployeeData represents an employee record
type EmployeeData struct {
	ID           string  `json:"id" example:"7c9e6679-7425-40de-944b-e07fc1f90ae7"`
	Name         string  `json:"name" example:"Maria Santos"`
	EmployeeCode string  `json:"employee_code" example:"EMP-001"`
	Department   *string `json:"department,omitempty" example:"Operations"`
	Email        *string `json:"email,omitempty" example:"maria@example.com"`
	CreatedAt    string  `json:"created_at" example:"2024-01-01T00:00:00Z"`
	UpdatedAt    string  `json:"updated_at" example:"2024-01-01T00:00:00Z"`
}

// EmployeeRequest is the body for create and update
type EmployeeRequest struct {
	Name         string  `json:"name" example:"Maria Santos"`
	EmployeeCode string  `json:"employee_code" example:"EMP-001"`
	Department   *string `json:"department,omitempty" example:"Operations"`
	Email        *string `json:"email,omitempty" example:"maria@example.com"`
}

// EmployeeResponse wraps one employee
type EmployeeResponse struct {
	Success   bool         `json:"success" example:"true"`
	Message   string       `json:"message" example:"Employee created"`
	Data      EmployeeData `json:"data"`
	Timestamp string       `json:"timestamp" example:"2024-03-04T08:00:00Z"`
}

// EmployeeListResponse wraps a list of employees
type EmployeeListResponse struct {
	Success   bool           `json:"success" example:"true"`
	Message   string         `json:"message" example:"Employees"`
	Data      []EmployeeData `json:"data"`
	Timestamp string         `json:"timestamp" example:"2024-03-04T08:00:00Z"`
}

// VerificationData is the outcome of a face verification
type VerificationData struct {
	Matched         bool     `json:"matched" example:"true"`
	EmployeeID      *string  `json:"employee_id,omitempty" example:"7c9e6679-7425-40de-944b-e07fc1f90ae7"`
	ConfidenceScore *float64 `json:"confidence_score,omitempty" example:"0.93"`
	Message         string   `json:"message" example:"Match found."`
}

// VerificationResponse wraps a verification outcome
type VerificationResponse struct {
	Success   bool             `json:"success" example:"true"`
	Message   string           `json:"message" example:"Verification complete"`
	Data      VerificationData `json:"data"`
	Timestamp string           `json:"timestamp" example:"2024-03-04T08:00:00Z"`
}

// FaceEmbeddingData represents a stored face registration
type FaceEmbeddingData struct {
	ID                 string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	EmployeeID         string `json:"employee_id" example:"7c9e6679-7425-40de-944b-e07fc1f90ae7"`
	EmbeddingReference string `json:"embedding_reference" example:"/embeddings/7c9e6679.npy"`
	ModelUsed          string `json:"model_used" example:"DeepFace"`
	CreatedAt          string `json:"created_at" example:"2024-01-01T00:00:00Z"`
}

// FaceEmbeddingResponse wraps a face registration
type FaceEmbeddingResponse struct {
	Success   bool              `json:"success" example:"true"`
	Message   string            `json:"message" example:"Face registered"`
	Data      FaceEmbeddingData `json:"data"`
	Timestamp string            `json:"timestamp" example:"2024-03-04T08:00:00Z"`
}

// FaceEmbeddingListResponse wraps an employee's face registrations
type FaceEmbeddingListResponse struct {
	Success   bool                `json:"success" example:"true"`
	Message   string              `json:"message" example:"Face registrations"`
	Data      []FaceEmbeddingData `json:"data"`
	Timestamp string              `json:"timestamp" example:"2024-03-04T08:00:00Z"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"VALIDATION_FAILED"`
	Message string `json:"message" example:"Request validation failed"`
}

// HealthResponse represents health and readiness checks
type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Version string `json:"version,omitempty" example:"0.1.0"`
}

var internalError = response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error")

func clockEndpoint(path, summary, message string, conflict ErrorResponse) *endpoint.EndPoint {
	return endpoint.New(
		endpoint.POST,
		path,
		endpoint.WithTags("Attendance"),
		endpoint.WithSummary(summary),
		endpoint.WithDescription("Multipart form with an employeeId field and an optional image part. When an image is sent the face is verified first; an unavailable recognition service never blocks the clock event, it is recorded as unverified with a note."),
		endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
		endpoint.WithProduce([]mime.MIME{mime.JSON}),
		endpoint.WithSuccessfulReturns([]response.Response{
			response.New(AttendanceEventResponse{Message: message}, "200", message),
		}),
		endpoint.WithErrors([]response.Response{
			response.New(ErrorResponse{Code: "EMPLOYEE_NOT_FOUND", Message: "Employee not found"}, "404", "Not Found"),
			response.New(conflict, "409", "Conflict"),
			response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "employeeId must be a valid UUID"}, "422", "Unprocessable Entity"),
			response.New(ErrorResponse{Code: "INVALID_IMAGE", Message: "Image must be at most 10MB"}, "422", "Unprocessable Entity"),
			response.New(ErrorResponse{Code: "RATE_LIMIT_EXCEEDED", Message: "Rate limit exceeded"}, "429", "Too Many Requests"),
			internalError,
		}),
	)
}

func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "BundyClock Attendance API",
		Version:     "v1.0.0",
		Description: "Employee Time-In/Time-Out recording with optional face verification",
		Host:        "localhost:8080",
		Path:        "/api",
	})

	employeePath := parameter.StrParam("employeeId", parameter.Path, parameter.WithDescription("Employee UUID"))
	idPath := parameter.StrParam("id", parameter.Path, parameter.WithDescription("Employee UUID"))

	endpoints := []*endpoint.EndPoint{
		// Attendance endpoints

		clockEndpoint("/attendance/time-in", "Record a Time-In", "Time-In recorded",
			ErrorResponse{Code: "ALREADY_CLOCKED_IN", Message: "Employee has already clocked in today"}),
		clockEndpoint("/attendance/time-out", "Record a Time-Out", "Time-Out recorded",
			ErrorResponse{Code: "NO_OPEN_CLOCK_IN", Message: "Employee has not clocked in today"}),

		// GET /api/attendance - All events
		endpoint.New(
			endpoint.GET,
			"/attendance",
			endpoint.WithTags("Attendance"),
			endpoint.WithSummary("List all attendance events"),
			endpoint.WithDescription("Returns the whole ledger ordered newest first"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(AttendanceListResponse{}, "200", "Events retrieved successfully"),
			}),
			endpoint.WithErrors([]response.Response{internalError}),
		),

		// GET /api/attendance/employee/{employeeId}
		endpoint.New(
			endpoint.GET,
			"/attendance/employee/{employeeId}",
			endpoint.WithTags("Attendance"),
			endpoint.WithSummary("List events for an employee"),
			endpoint.WithDescription("Returns one employee's events ordered newest first. History is kept after the employee is deleted."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(employeePath),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(AttendanceListResponse{}, "200", "Events retrieved successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "employeeId must be a valid UUID"}, "422", "Unprocessable Entity"),
				internalError,
			}),
		),

		// GET /api/attendance/employee/{employeeId}/state
		endpoint.New(
			endpoint.GET,
			"/attendance/employee/{employeeId}/state",
			endpoint.WithTags("Attendance"),
			endpoint.WithSummary("Get today's clock state"),
			endpoint.WithDescription("Derives NOT_CLOCKED_IN, CLOCKED_IN or CLOCKED_OUT from the employee's latest event today"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(employeePath),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(ClockStateResponse{}, "200", "State retrieved successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "EMPLOYEE_NOT_FOUND", Message: "Employee not found"}, "404", "Not Found"),
				internalError,
			}),
		),

		// GET /api/attendance/live - WebSocket feed
		endpoint.New(
			endpoint.GET,
			"/attendance/live",
			endpoint.WithTags("Attendance"),
			endpoint.WithSummary("Live attendance feed"),
			endpoint.WithDescription("WebSocket upgrade. Streams attendance.time_in, attendance.time_out and face.registered events. Pass employeeId to receive a single employee's events."),
			endpoint.WithParams(
				parameter.StrParam("employeeId", parameter.Query, parameter.WithDescription("Optional employee UUID filter")),
			),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "employeeId must be a valid UUID"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "HTTP_ERROR", Message: "Upgrade Required"}, "426", "Upgrade Required"),
			}),
		),

		// Face endpoints

		// POST /api/face/verify
		endpoint.New(
			endpoint.POST,
			"/face/verify",
			endpoint.WithTags("Faces"),
			endpoint.WithSummary("Verify a face"),
			endpoint.WithDescription("Forwards the image to the recognition service. Service failures are reported as an unmatched outcome, never as an error."),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(VerificationResponse{}, "200", "Verification complete"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "image is required"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "INVALID_IMAGE", Message: "Unsupported content type"}, "422", "Unprocessable Entity"),
				internalError,
			}),
		),

		// POST /api/face/register
		endpoint.New(
			endpoint.POST,
			"/face/register",
			endpoint.WithTags("Faces"),
			endpoint.WithSummary("Register an employee's face"),
			endpoint.WithDescription("Multipart form with employeeId and image. The registration is stored only when the recognition service accepts it."),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(FaceEmbeddingResponse{}, "201", "Face registered"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "EMPLOYEE_NOT_FOUND", Message: "Employee not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "VERIFICATION_REJECTED", Message: "No face detected in the provided image."}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "VERIFICATION_SERVICE_ERROR", Message: "Face recognition service unavailable"}, "502", "Bad Gateway"),
				internalError,
			}),
		),

		// Employee endpoints

		endpoint.New(
			endpoint.GET,
			"/employees",
			endpoint.WithTags("Employees"),
			endpoint.WithSummary("List employees"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmployeeListResponse{}, "200", "Employees retrieved successfully"),
			}),
			endpoint.WithErrors([]response.Response{internalError}),
		),

		endpoint.New(
			endpoint.POST,
			"/employees",
			endpoint.WithTags("Employees"),
			endpoint.WithSummary("Create an employee"),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithBody(EmployeeRequest{}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmployeeResponse{}, "201", "Employee created"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "BAD_REQUEST", Message: "Invalid request body"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "EMPLOYEE_EXISTS", Message: "Employee code or email already in use"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "name is required"}, "422", "Unprocessable Entity"),
				internalError,
			}),
		),

		endpoint.New(
			endpoint.GET,
			"/employees/{id}",
			endpoint.WithTags("Employees"),
			endpoint.WithSummary("Get an employee"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(idPath),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmployeeResponse{}, "200", "Employee retrieved successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "EMPLOYEE_NOT_FOUND", Message: "Employee not found"}, "404", "Not Found"),
				internalError,
			}),
		),

		endpoint.New(
			endpoint.PUT,
			"/employees/{id}",
			endpoint.WithTags("Employees"),
			endpoint.WithSummary("Update an employee"),
			endpoint.WithDescription("Updates name, department and email. The employee code cannot change."),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(idPath),
			endpoint.WithBody(EmployeeRequest{}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmployeeResponse{}, "200", "Employee updated"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "EMPLOYEE_NOT_FOUND", Message: "Employee not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "EMPLOYEE_EXISTS", Message: "Email already in use"}, "409", "Conflict"),
				internalError,
			}),
		),

		endpoint.New(
			endpoint.DELETE,
			"/employees/{id}",
			endpoint.WithTags("Employees"),
			endpoint.WithSummary("Delete an employee"),
			endpoint.WithDescription("Removes the employee record. Attendance history is kept."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(idPath),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmployeeResponse{Message: "Employee deleted"}, "200", "Employee deleted"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "EMPLOYEE_NOT_FOUND", Message: "Employee not found"}, "404", "Not Found"),
				internalError,
			}),
		),

		endpoint.New(
			endpoint.GET,
			"/employees/{id}/faces",
			endpoint.WithTags("Employees"),
			endpoint.WithSummary("List an employee's face registrations"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(idPath),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(FaceEmbeddingListResponse{}, "200", "Registrations retrieved successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "EMPLOYEE_NOT_FOUND", Message: "Employee not found"}, "404", "Not Found"),
				internalError,
			}),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
