package endpoint

import (
	"context"
	"database/sql"
)

// DB is the part of *sql.DB a SQLConn needs.
type DB interface {
	Conn(ctx context.Context) (*sql.Conn, error)
	Close() error
}

var _ DB = &sql.DB{}
