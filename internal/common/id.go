package common

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewJobID generates a unique job ID with a "job_" prefix.
// Format: job_<unix-millis>_<uuid-fragment>. The time-based prefix keeps
// ids roughly sortable by submission time; the random suffix makes
// collisions across concurrent submissions overwhelmingly improbable.
func NewJobID() string {
	suffix := strings.Split(uuid.New().String(), "-")[0]
	return fmt.Sprintf("job_%d_%s", time.Now().UnixMilli(), suffix)
}

// NewRequestID generates a unique request ID with a "req_" prefix for the
// store-and-forward result path.
func NewRequestID() string {
	suffix := strings.Split(uuid.New().String(), "-")[0]
	return fmt.Sprintf("req_%d_%s", time.Now().UnixMilli(), suffix)
}
