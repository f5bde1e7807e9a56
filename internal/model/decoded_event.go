package model

// DecodedEvent is a tracked-contract log resolved into an event name and named arguments.
// Numeric arguments are decimal strings.
type DecodedEvent struct {
	Event string                 `json:"event"`
	Args  map[string]interface{} `json:"args"`
}
