package engine

import "errors"

// Error kinds of spec.md §7. All are returned, never panicked, across the
// engine boundary. The Engine API reports them as text in the result's
// Message field (the error's Error() string, possibly with detail appended
// for validation and unsupported-symbol failures), not as error values.
var (
	ErrValidation        = errors.New("validation error")
	ErrUnsupportedSymbol = errors.New("unsupported symbol")
	ErrNoLiquidity       = errors.New("no liquidity")
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderTerminal     = errors.New("order already in a terminal state")
	ErrEngineStopped     = errors.New("engine stopped")
)
