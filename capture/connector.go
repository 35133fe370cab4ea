package capture

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Connector exposes capture connections through database/sql.
//
// Exec without arguments records the statement. Transactions switch the
// connection to queued mode until Commit. Queries, prepared statements
// and arguments fail with ErrUnsupported.
type Connector struct {
	Capture    *Driver
	DSN        string
	Properties Properties
}

var _ driver.Connector = (*Connector)(nil)

// OpenDB opens a *sql.DB recording to the capture connection string dsn.
// The pool is limited to a single connection, since every connection
// would otherwise truncate the same sink.
func OpenDB(dsn string, props Properties, logger logrus.FieldLogger) *sql.DB {
	db := sql.OpenDB(&Connector{
		Capture:    &Driver{Logger: logger},
		DSN:        dsn,
		Properties: props,
	})
	db.SetMaxOpenConns(1)
	return db
}

func (c *Connector) Connect(ctx context.Context) (driver.Conn, error) {
	return c.open(c.DSN)
}

func (c *Connector) Driver() driver.Driver {
	return sqlDriver{c}
}

func (c *Connector) open(dsn string) (driver.Conn, error) {
	d := c.Capture
	if d == nil {
		d = &Driver{}
	}
	conn, err := d.Connect(dsn, c.Properties)
	if err != nil {
		return nil, err
	}
	if conn == nil {
		return nil, fmt.Errorf("capture: not a capture connection string: %q", dsn)
	}
	return &sqlConn{conn: conn}, nil
}

type sqlDriver struct {
	c *Connector
}

func (d sqlDriver) Open(name string) (driver.Conn, error) {
	return d.c.open(name)
}

type sqlConn struct {
	conn *Conn
}

var (
	_ driver.ExecerContext   = (*sqlConn)(nil)
	_ driver.ConnBeginTx     = (*sqlConn)(nil)
	_ driver.SessionResetter = (*sqlConn)(nil)
)

func (c *sqlConn) Prepare(query string) (driver.Stmt, error) {
	return nil, ErrUnsupported
}

func (c *sqlConn) Close() error {
	return c.conn.Close()
}

func (c *sqlConn) Begin() (driver.Tx, error) {
	return c.BeginTx(context.Background(), driver.TxOptions{})
}

func (c *sqlConn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	c.conn.SetAutoCommit(false)
	return sqlTx{c.conn}, nil
}

func (c *sqlConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	if len(args) > 0 {
		return nil, ErrUnsupported
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ok, err := c.conn.Execute(query)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNullStatement
	}
	return driver.RowsAffected(0), nil
}

func (c *sqlConn) ResetSession(ctx context.Context) error {
	c.conn.SetAutoCommit(true)
	return nil
}

type sqlTx struct {
	conn *Conn
}

func (tx sqlTx) Commit() error {
	defer tx.conn.SetAutoCommit(true)
	return tx.conn.Commit()
}

func (tx sqlTx) Rollback() error {
	defer tx.conn.SetAutoCommit(true)
	return tx.conn.Rollback()
}
