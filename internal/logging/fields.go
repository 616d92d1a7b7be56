package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldEventType classifies a log line for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests the next step when something fails.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldCorrelationID tags every line logged while handling one request.
	FieldCorrelationID = "correlation_id"
	// FieldSessionID identifies one daemon run.
	FieldSessionID = "session_id"
	// FieldRequest is the request file name.
	FieldRequest = "request"
	// FieldPID is the requesting process id.
	FieldPID = "pid"
	// FieldSocket is the reply socket path.
	FieldSocket = "socket"
)
