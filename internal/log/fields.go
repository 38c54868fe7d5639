package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldOperation   = "operation"
	FieldError       = "error"
	FieldRecordID    = "record_id"
	FieldKind        = "kind"
	FieldCategory    = "category"
	FieldAmountCents = "amount_cents"
	FieldBalance     = "balance"
	FieldCount       = "count"
	FieldPath        = "path"
	FieldBackend     = "backend"
	FieldVariant     = "variant"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentStore   = "store"
	ComponentStorage = "storage"
	ComponentBackend = "backend"
	ComponentCache   = "cache"
)

// Operations defines standard operation names
const (
	OpAdd     = "add"
	OpDelete  = "delete"
	OpToggle  = "toggle"
	OpClear   = "clear"
	OpBudget  = "set_budget"
	OpSave    = "save"
	OpLoad    = "load"
	OpStartup = "startup"
)
