package models

import (
	"encoding/json"
	"time"
)

// TaskDocument is a user's whole client/task collection. The server keeps
// the JSON as sent and only checks that it is an array.
type TaskDocument struct {
	UserID   int64
	Data     json.RawMessage
	LastSync time.Time
}
