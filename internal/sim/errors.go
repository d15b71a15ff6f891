package sim

import "errors"

// Domain errors for simulation control operations.
var (
	// ErrAlreadyRunning indicates Start was called while the background
	// loop is running.
	ErrAlreadyRunning = errors.New("sim: simulation already running")

	// ErrClosed indicates the coordinator was torn down and accepts no
	// further operations.
	ErrClosed = errors.New("sim: coordinator closed")

	// ErrInvalidTimestep indicates a non-positive dt.
	ErrInvalidTimestep = errors.New("sim: timestep must be positive")

	// ErrInvalidDuration indicates a non-positive run duration.
	ErrInvalidDuration = errors.New("sim: duration must be positive")

	// ErrUnstable indicates body state diverged to NaN or Inf.
	ErrUnstable = errors.New("sim: simulation unstable (state diverged)")
)
