package capture

import (
	"errors"
)

var (
	// ErrNullConnectionString is returned when a connection string is required but empty.
	ErrNullConnectionString = errors.New("capture: connection string is empty")

	// ErrNullStatement is returned by the database/sql adapter for an empty statement.
	ErrNullStatement = errors.New("capture: statement is empty")

	// ErrForcedFailure is returned by every Execute and Commit on a connection
	// configured with forceFailureOnAllOperations. The message is fixed so that
	// callers can match on it in suppression filters.
	ErrForcedFailure = errors.New(PropertyForceFailure + " property for the capture connection of the operation is true")

	// ErrUnsupported is returned by the database/sql adapter for operations a
	// capture connection cannot perform (queries, prepared statements, arguments).
	ErrUnsupported = errors.New("capture: operation not supported")
)
