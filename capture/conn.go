package capture

import (
	"io"

	"github.com/sirupsen/logrus"
)

// LineSeparator precedes every recorded statement except the first.
const LineSeparator = "\n"

// Conn is a stand-in database connection that records statements to a
// Sink instead of executing them.
//
// With auto commit on (the default) each statement is written and flushed
// immediately. With auto commit off statements are queued until Commit.
// Rollback does nothing; queued statements stay queued.
//
// A Conn is not safe for concurrent use.
type Conn struct {
	sink   Sink
	config Config
	logger logrus.FieldLogger

	autoCommit bool
	queue      []string
	// executed is set once any statement has been accepted, written or
	// queued; it decides whether the next one gets a LineSeparator.
	executed bool
}

// NewConn creates a connection owning sink. A nil logger uses the logrus
// standard logger.
func NewConn(sink Sink, config Config, logger logrus.FieldLogger) *Conn {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Conn{
		sink:       sink,
		config:     config,
		logger:     logger,
		autoCommit: true,
	}
}

func (c *Conn) Config() Config {
	return c.config
}

// Execute records statement. It reports false, and records nothing, for
// an empty statement.
func (c *Conn) Execute(statement string) (bool, error) {
	if c.config.ForceFailureOnAllOperations {
		return false, ErrForcedFailure
	}
	if statement == "" {
		return false, nil
	}

	text := statement
	if c.executed {
		text = LineSeparator + statement
	}

	if c.autoCommit {
		if _, err := io.WriteString(c.sink, text); err != nil {
			return false, err
		}
		if err := c.sink.Flush(); err != nil {
			return false, err
		}
	} else {
		c.queue = append(c.queue, text)
	}
	c.executed = true

	c.logger.WithFields(logrus.Fields{
		"autocommit": c.autoCommit,
		"pending":    len(c.queue),
	}).Debug("captured statement")
	return true, nil
}

func (c *Conn) SetAutoCommit(enabled bool) {
	c.autoCommit = enabled
}

func (c *Conn) AutoCommit() bool {
	return c.autoCommit
}

// Pending returns the number of statements waiting for Commit.
func (c *Conn) Pending() int {
	return len(c.queue)
}

// Commit writes the queued statements in the order they were executed,
// then flushes the sink.
func (c *Conn) Commit() error {
	if c.config.ForceFailureOnAllOperations {
		return ErrForcedFailure
	}

	n := len(c.queue)
	for len(c.queue) > 0 {
		if _, err := io.WriteString(c.sink, c.queue[0]); err != nil {
			return err
		}
		c.queue = c.queue[1:]
	}
	c.queue = nil
	if err := c.sink.Flush(); err != nil {
		return err
	}

	c.logger.WithField("statements", n).Debug("committed captured statements")
	return nil
}

// Rollback is a no-op: there is nothing to undo in the sink, and queued
// statements are left for a later Commit.
func (c *Conn) Rollback() error {
	return nil
}

// Close releases the sink. Statements still queued are not written.
func (c *Conn) Close() error {
	return c.sink.Close()
}
