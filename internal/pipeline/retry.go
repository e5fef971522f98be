package pipeline

import (
	"errors"
	"math/rand/v2"
	"time"

	"github.com/kulurunagavardhanreddy/lumio/internal/summarize"
)

// MaxRetries is the number of additional attempts made for a chunk
// after a retryable backend failure.
const MaxRetries = 3

const maxBackoff = 30 * time.Second

// IsRetryable reports whether err indicates a transient backend
// condition such as rate limiting or a 5xx response.
func IsRetryable(err error) bool {
	var re *summarize.RetryableError
	return errors.As(err, &re)
}

// Backoff returns the delay before the given retry attempt: exponential
// with a cap, plus up to 500ms of jitter to spread out retry storms.
func Backoff(attempt int) time.Duration {
	d := time.Duration(1<<attempt) * time.Second
	if d > maxBackoff {
		d = maxBackoff
	}
	return d + time.Duration(rand.Int64N(int64(500*time.Millisecond)))
}
