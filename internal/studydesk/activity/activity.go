// Package activity enforces idle logout on the server. Each session key
// carries a last-activity time; a request arriving more than the idle
// timeout after the previous one ends the session for good.
package activity

import (
	"context"
	"errors"
	"time"
)

var ErrIdle = errors.New("activity: session idle")

const (
	DefaultIdleTimeout = 10 * time.Minute

	// DefaultRetention is how long a key is remembered after its last
	// activity. It must outlive the provider's token lifetime, otherwise an
	// idled-out token becomes usable again once its tombstone is dropped.
	DefaultRetention = 24 * time.Hour
)

type Tracker interface {
	// Touch records activity at now. It returns ErrIdle when the previous
	// activity is older than the idle timeout, or the key already idled out.
	Touch(ctx context.Context, key string, now time.Time) error

	// Sweep drops keys whose last activity is older than the retention and
	// returns how many went away.
	Sweep(ctx context.Context, now time.Time) (int, error)
}

type Options struct {
	IdleTimeout time.Duration
	Retention   time.Duration
}

func (o Options) withDefaults() Options {
	if o.IdleTimeout <= 0 {
		o.IdleTimeout = DefaultIdleTimeout
	}
	if o.Retention < o.IdleTimeout {
		o.Retention = max(DefaultRetention, o.IdleTimeout)
	}
	return o
}
