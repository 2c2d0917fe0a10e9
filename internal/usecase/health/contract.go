package health

import "context"

// DBPinger checks document store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// RankerChecker checks ranking engine availability.
type RankerChecker interface {
	HealthCheck(ctx context.Context) error
}

// IndexReporter reports the size of the in-process fallback index.
type IndexReporter interface {
	Len() int
}
