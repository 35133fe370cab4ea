// Package sqltest provides throwaway databases for integration tests.
// Tests using it are skipped unless SQLSERVER_DSN or PGSQL_DSN is set.
package sqltest

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	mssql "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"
)

type testLogger struct {
	t testing.TB
}

func (l testLogger) Printf(format string, v ...interface{}) {
	l.t.Logf(format, v...)
}

func (l testLogger) Println(v ...interface{}) {
	l.t.Log(v...)
}

var _ mssql.Logger = testLogger{}

type Fixture struct {
	// DB is connected to the throwaway database.
	DB *sql.DB
	// DSN is the connection string of the throwaway database.
	DSN    string
	DBName string

	driver  string
	adminDB *sql.DB
}

// NewFixture creates a throwaway database, dropped when the test ends.
func NewFixture(t testing.TB) *Fixture {
	t.Helper()
	fixture := Fixture{
		DBName: "sqlprime" + strings.ReplaceAll(uuid.Must(uuid.NewV4()).String(), "-", ""),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	dsn := os.Getenv("SQLSERVER_DSN")
	fixture.driver = "sqlserver"
	if dsn == "" {
		dsn = os.Getenv("PGSQL_DSN")
		fixture.driver = "pgx"
	}
	if dsn == "" {
		t.Skip("set SQLSERVER_DSN or PGSQL_DSN to run database tests")
	}

	if fixture.IsSqlServer() {
		mssql.SetLogger(testLogger{t})
	}

	var err error
	fixture.adminDB, err = sql.Open(fixture.driver, dsn)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(fixture.Teardown)

	create := fmt.Sprintf(`create database "%s"`, fixture.DBName)
	if fixture.IsSqlServer() {
		create = fmt.Sprintf(`create database [%s]`, fixture.DBName)
	}
	if _, err = fixture.adminDB.ExecContext(ctx, create); err != nil {
		t.Fatal(err)
	}

	fixture.DSN, err = fixture.databaseDSN(dsn)
	if err != nil {
		t.Fatal(err)
	}
	fixture.DB, err = sql.Open(fixture.driver, fixture.DSN)
	if err != nil {
		t.Fatal(err)
	}
	return &fixture
}

func (f *Fixture) IsSqlServer() bool {
	return f.driver == "sqlserver"
}

func (f *Fixture) IsPostgresql() bool {
	return f.driver == "pgx"
}

func (f *Fixture) databaseDSN(dsn string) (string, error) {
	if f.IsSqlServer() {
		pdsn, err := msdsn.Parse(dsn)
		if err != nil {
			return "", err
		}
		pdsn.Database = f.DBName
		return pdsn.URL().String(), nil
	}
	u, err := url.Parse(dsn)
	if err != nil {
		return "", err
	}
	u.Path = "/" + f.DBName
	return u.String(), nil
}

func (f *Fixture) Teardown() {
	if f.adminDB == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if f.DB != nil {
		_ = f.DB.Close()
		f.DB = nil
	}
	drop := fmt.Sprintf(`drop database if exists "%s"`, f.DBName)
	if f.IsSqlServer() {
		drop = fmt.Sprintf(`drop database if exists [%s]`, f.DBName)
	}
	_, _ = f.adminDB.ExecContext(ctx, drop)
	_ = f.adminDB.Close()
	f.adminDB = nil
}
