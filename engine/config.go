package engine

import (
	"runtime"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bootci/storage"
)

const DefaultAlpha = 0.05

// Config carries everything a run needs; there is no process-wide
// state, so two runs with the same Config (and estimator) produce the
// same results regardless of how they are scheduled.
type Config struct {
	// Times is the number of bootstrap replicates, >= 1.
	Times int
	Seed  int64
	// IncludeApparent appends the unsampled original dataset as the
	// final replicate. Required for studentized intervals.
	IncludeApparent bool
	// Alpha is the interval tail mass; 0 means DefaultAlpha (95%).
	Alpha float64
	// Workers caps concurrent estimator fits; <= 0 means GOMAXPROCS.
	Workers int
	// MaxFailFraction is the share of bootstrap replicates that may
	// fail before the run aborts. Zero keeps the strict default:
	// the first estimator failure kills the run. Dropped replicates
	// are counted on the Run, never silently discarded.
	MaxFailFraction float64
	// Logger defaults to a nop logger.
	Logger *zap.Logger
	// Store, when set, persists every result and the run metadata.
	Store *storage.ResultStore
	// RunID keys persisted records; generated when zero.
	RunID uuid.UUID
	// Label is stored with the run metadata.
	Label string
}

func (c Config) withDefaults() Config {
	if c.Alpha == 0 {
		c.Alpha = DefaultAlpha
	}
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.RunID == uuid.Nil {
		c.RunID = uuid.New()
	}
	return c
}
