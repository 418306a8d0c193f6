// Package quota holds the durable counter behind the anonymous
// generation allowance: a small fixed quota per client IP per rolling
// window, stored in the database rather than process memory so that
// restarts and multiple instances see the same counts.
package quota

import (
	"context"
	"time"
)

// Repository defines the interface for anonymous quota counters
type Repository interface {
	// Consume counts one generation against the IP's window. When the
	// previous window has expired the counter starts over. Returns
	// whether the generation is allowed and the count used so far within
	// the window (including this one when allowed).
	Consume(ctx context.Context, ip string, limit int, window time.Duration) (allowed bool, used int, err error)
}
