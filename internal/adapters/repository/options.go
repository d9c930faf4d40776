package repository

import "time"

// Option applies a configuration option to the Postgres store.
type Option func(*Postgres)

// WithQueryTimeout bounds every statement issued by the store.
func WithQueryTimeout(d time.Duration) Option {
	return func(p *Postgres) {
		if d > 0 {
			p.queryTimeout = d
		}
	}
}
