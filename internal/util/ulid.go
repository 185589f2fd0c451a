package util

import (
	"github.com/oklog/ulid/v2"
)

// NewULID generates a new ULID string, used as the opaque id for quizzes and
// questions. The package-level entropy source behind ulid.Make keeps ids
// monotonic within the process and safe for concurrent callers.
func NewULID() string {
	return ulid.Make().String()
}
