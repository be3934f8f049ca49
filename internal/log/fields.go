package log

// Common field names for structured logging.
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldUserID    = "user_id"
	FieldRecordID  = "record_id"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldDuration  = "duration_ms"
)

// Standard component names.
const (
	ComponentApp          = "app"
	ComponentHTTP         = "http"
	ComponentAuth         = "auth"
	ComponentSession      = "session"
	ComponentStorage      = "storage"
	ComponentTransactions = "transactions"
	ComponentBills        = "recurring_bills"
	ComponentReminders    = "reminders"
)

// Standard operation names.
const (
	OpCreate   = "create"
	OpList     = "list"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpRefresh  = "refresh"
	OpSignUp   = "sign_up"
	OpSignIn   = "sign_in"
	OpSignOut  = "sign_out"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
