package hsm

import (
	"fmt"
	"log/slog"

	"github.com/gofrs/uuid/v5"
)

// FiringMode determines how triggers fired while another trigger is being
// processed are handled.
type FiringMode int

const (
	// FiringQueued appends triggers to a FIFO queue that is drained by the
	// outermost Fire call, so every transition runs to completion before the
	// next one starts. This is the default.
	FiringQueued FiringMode = iota

	// FiringImmediate processes every trigger as soon as it is fired, even
	// from inside an entry or exit action. Nested transitions interleave
	// with the outer one.
	FiringImmediate
)

func (m FiringMode) String() string {
	switch m {
	case FiringQueued:
		return "queued"
	case FiringImmediate:
		return "immediate"
	default:
		return fmt.Sprintf("FiringMode(%d)", int(m))
	}
}

type options struct {
	firingMode FiringMode
	logger     *slog.Logger
	name       string
}

// Option configures a StateMachine.
type Option func(*options)

// WithFiringMode sets the firing mode.
func WithFiringMode(mode FiringMode) Option {
	return func(o *options) {
		o.firingMode = mode
	}
}

// WithLogger sets the logger used for debug and warning records.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithName labels the machine in logs and metrics.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

func newOptions(opts []Option) options {
	o := options{firingMode: FiringQueued}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	if o.name == "" {
		o.name = uuid.Must(uuid.NewV6()).String()
	}
	return o
}
