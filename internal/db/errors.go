package db

import "fmt"

// Op identifies the store operation that failed.
type Op string

// Store operations.
const (
	OpPing   Op = "ping"
	OpSearch Op = "search"
)

// Kind classifies a store failure for tier-fallback decisions.
type Kind int

const (
	// KindUnavailable covers transport failures: connection refused, DNS,
	// timeouts. Recoverable by falling back to another tier.
	KindUnavailable Kind = iota
	// KindServer covers error replies from a reachable store.
	KindServer
)

// Error wraps a store failure with the operation that produced it.
type Error struct {
	Op   Op
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("db %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
