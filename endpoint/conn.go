// Package endpoint resolves connection strings into connections that
// statements can be executed on.
package endpoint

import (
	"context"
)

// Conn is the narrow set of operations a primer needs from a connection.
type Conn interface {
	// Execute runs statement. It reports false when there was nothing to
	// run.
	Execute(ctx context.Context, statement string) (bool, error)
	SetAutoCommit(enabled bool) error
	AutoCommit() bool
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	Close() error
}

// Resolver turns the connection strings it accepts into connections.
type Resolver interface {
	Name() string
	AcceptsConnectionString(s string) (bool, error)
	// Connect returns a nil Conn and a nil error when s is not accepted.
	Connect(ctx context.Context, s string, props map[string]string) (Conn, error)
}
