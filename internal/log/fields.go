package log

// Field names shared by the request logging middleware so log lines stay
// queryable across handlers.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
)

// Component names for the top-level subsystems.
const (
	ComponentApp    = "app"
	ComponentSheets = "sheets"
	ComponentAMQP   = "amqp"
)
