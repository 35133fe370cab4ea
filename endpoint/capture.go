package endpoint

import (
	"context"

	"github.com/vippsas/sqlprime/capture"
)

type captureResolver struct {
	d *capture.Driver
}

// CaptureResolver exposes d through the Resolver interface.
func CaptureResolver(d *capture.Driver) Resolver {
	return captureResolver{d: d}
}

func (r captureResolver) Name() string {
	return capture.Scheme
}

func (r captureResolver) AcceptsConnectionString(s string) (bool, error) {
	return r.d.AcceptsConnectionString(s)
}

func (r captureResolver) Connect(ctx context.Context, s string, props map[string]string) (Conn, error) {
	c, err := r.d.Connect(s, props)
	if err != nil || c == nil {
		return nil, err
	}
	return captureConn{c}, nil
}

type captureConn struct {
	c *capture.Conn
}

func (c captureConn) Execute(ctx context.Context, statement string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return c.c.Execute(statement)
}

func (c captureConn) SetAutoCommit(enabled bool) error {
	c.c.SetAutoCommit(enabled)
	return nil
}

func (c captureConn) AutoCommit() bool {
	return c.c.AutoCommit()
}

func (c captureConn) Commit(ctx context.Context) error {
	return c.c.Commit()
}

func (c captureConn) Rollback(ctx context.Context) error {
	return c.c.Rollback()
}

func (c captureConn) Close() error {
	return c.c.Close()
}
