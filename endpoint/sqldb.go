package endpoint

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	mssql "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/azuread"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/proxy"
)

// SocksEnv names the environment variable holding a SOCKS5 proxy address
// that database connections are dialed through.
const SocksEnv = "SQL_SOCKS"

var sqlSchemes = []string{"sqlserver://", "azuresql://", "postgres://", "postgresql://"}

// SQLResolver opens real databases: sqlserver:// for password login and
// azuresql:// for AD login to SQL Server, postgres:// for PostgreSQL.
// Connection properties are added to the URL query.
type SQLResolver struct {
	Logger logrus.FieldLogger
	// Getenv looks up SocksEnv. Defaults to os.Getenv.
	Getenv func(string) string
}

var _ Resolver = (*SQLResolver)(nil)

func (r *SQLResolver) Name() string {
	return "sql"
}

func (r *SQLResolver) AcceptsConnectionString(s string) (bool, error) {
	if s == "" {
		return false, errors.New("connection string is empty")
	}
	for _, scheme := range sqlSchemes {
		if strings.HasPrefix(s, scheme) {
			return true, nil
		}
	}
	return false, nil
}

func (r *SQLResolver) Connect(ctx context.Context, s string, props map[string]string) (Conn, error) {
	if ok, err := r.AcceptsConnectionString(s); err != nil || !ok {
		return nil, err
	}
	db, err := r.OpenDB(s, props)
	if err != nil {
		return nil, err
	}
	conn, err := NewSQLConn(ctx, db, r.logger())
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return conn, nil
}

// OpenDB opens a *sql.DB for s without connecting.
func (r *SQLResolver) OpenDB(s string, props map[string]string) (*sql.DB, error) {
	dsn, err := withProperties(s, props)
	if err != nil {
		return nil, err
	}
	dialer, err := r.socksDialer()
	if err != nil {
		return nil, err
	}

	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		cfg, err := pgx.ParseConfig(dsn)
		if err != nil {
			return nil, err
		}
		if dialer != nil {
			cfg.DialFunc = dialer.DialContext
		}
		return stdlib.OpenDB(*cfg), nil
	}

	var connector *mssql.Connector
	if strings.HasPrefix(dsn, "azuresql://") {
		connector, err = azuread.NewConnector(dsn)
	} else if strings.HasPrefix(dsn, "sqlserver://") {
		connector, err = mssql.NewConnector(dsn)
	} else {
		return nil, errors.New("expected URI-style dsn; sqlserver:// for password login, azuresql:// for AD login or postgres://")
	}
	if err != nil {
		return nil, err
	}
	if dialer != nil {
		connector.Dialer = dialer
	}
	return sql.OpenDB(connector), nil
}

func (r *SQLResolver) socksDialer() (proxy.ContextDialer, error) {
	getenv := r.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	socksProxyAddress := getenv(SocksEnv)
	if socksProxyAddress == "" {
		return nil, nil
	}
	dialer, err := proxy.SOCKS5("tcp", socksProxyAddress, nil, nil)
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("Could not connect with SOCKS5 to %s", socksProxyAddress))
	}
	return dialer.(proxy.ContextDialer), nil
}

func (r *SQLResolver) logger() logrus.FieldLogger {
	if r.Logger == nil {
		return logrus.StandardLogger()
	}
	return r.Logger
}

// withProperties adds props to the query of the URL s. Properties already
// in s are overridden.
func withProperties(s string, props map[string]string) (string, error) {
	if len(props) == 0 {
		return s, nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", errors.Wrap(err, "invalid connection URL")
	}
	q := u.Query()
	for k, v := range props {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// SQLConn runs statements on one pinned database/sql connection. With auto
// commit off a transaction is begun by the first statement and ended by
// Commit or Rollback.
type SQLConn struct {
	db     DB
	conn   *sql.Conn
	tx     *sql.Tx
	logger logrus.FieldLogger

	autoCommit bool
}

var _ Conn = (*SQLConn)(nil)

// NewSQLConn takes ownership of db and pins one connection from it.
func NewSQLConn(ctx context.Context, db DB, logger logrus.FieldLogger) (*SQLConn, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return &SQLConn{db: db, conn: conn, logger: logger, autoCommit: true}, nil
}

func (c *SQLConn) Execute(ctx context.Context, statement string) (bool, error) {
	if statement == "" {
		return false, nil
	}
	if c.autoCommit {
		if _, err := c.conn.ExecContext(ctx, statement); err != nil {
			return false, wrapError(err)
		}
		return true, nil
	}
	if c.tx == nil {
		tx, err := c.conn.BeginTx(ctx, nil)
		if err != nil {
			return false, err
		}
		c.tx = tx
		c.logger.Debug("began transaction")
	}
	if _, err := c.tx.ExecContext(ctx, statement); err != nil {
		return false, wrapError(err)
	}
	return true, nil
}

// SetAutoCommit switches modes. Turning auto commit on commits an open
// transaction.
func (c *SQLConn) SetAutoCommit(enabled bool) error {
	if enabled && c.tx != nil {
		if err := c.Commit(context.Background()); err != nil {
			return err
		}
	}
	c.autoCommit = enabled
	return nil
}

func (c *SQLConn) AutoCommit() bool {
	return c.autoCommit
}

func (c *SQLConn) Commit(ctx context.Context) error {
	if c.tx == nil {
		return nil
	}
	tx := c.tx
	c.tx = nil
	return tx.Commit()
}

func (c *SQLConn) Rollback(ctx context.Context) error {
	if c.tx == nil {
		return nil
	}
	tx := c.tx
	c.tx = nil
	return tx.Rollback()
}

// Close rolls back an open transaction and closes the database.
func (c *SQLConn) Close() error {
	var err error
	if c.tx != nil {
		err = c.Rollback(context.Background())
	}
	if cerr := c.conn.Close(); err == nil {
		err = cerr
	}
	if cerr := c.db.Close(); err == nil {
		err = cerr
	}
	return err
}
