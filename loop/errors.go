package loop

import "errors"

var (
	// ErrNoFactory is returned when a panel is built without a way to
	// materialize items. The engine cannot run headless.
	ErrNoFactory = errors.New("loop: no item factory")
	// ErrNoSource is returned when a panel is built without an item source.
	ErrNoSource = errors.New("loop: no item source")
)
