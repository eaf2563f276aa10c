package warehouse

import (
	"time"

	"github.com/google/uuid"
)

// newID and nowFunc are indirected through package-level vars so tests
// can substitute deterministic values without a clock or randomness
// abstraction threaded through every gateway method.
var (
	newID   = func() string { return uuid.NewString() }
	nowFunc = time.Now
)
