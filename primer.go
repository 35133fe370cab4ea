package sqlprime

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"

	"github.com/gofrs/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vippsas/sqlprime/endpoint"
	"github.com/vippsas/sqlprime/settings"
	"github.com/vippsas/sqlprime/sqlparser"
	"golang.org/x/sync/errgroup"
)

// Primer executes the primer files of activities.
type Primer struct {
	Registry *endpoint.Registry
	// Params overrides the connection settings of activities at runtime.
	Params *settings.Parameters
	// FS holds the primer files, by the names activities list them under.
	FS     fs.FS
	Logger logrus.FieldLogger

	// LoadProperties reads a driver properties file. Defaults to
	// settings.LoadProperties.
	LoadProperties func(path string) (map[string]string, error)
}

// PrimeAll primes every activity, at most parallel at a time (no limit
// when parallel <= 0). Activities do not affect each other: all of them
// run, and every failure is returned.
func (p *Primer) PrimeAll(ctx context.Context, activities []Activity, parallel int) error {
	runID := uuid.Must(uuid.NewV4())
	logger := p.logger().WithField("run", runID.String())
	logger.WithField("activities", len(activities)).Info("priming databases")

	var g errgroup.Group
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	errs := make([]error, len(activities))
	for i, a := range activities {
		g.Go(func() error {
			errs[i] = p.prime(ctx, a, logger.WithField("activity", a.Name))
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

// PrimeActivity primes the database of a single activity.
func (p *Primer) PrimeActivity(ctx context.Context, a Activity) error {
	return p.prime(ctx, a, p.logger().WithField("activity", a.Name))
}

func (p *Primer) prime(ctx context.Context, a Activity, logger logrus.FieldLogger) (err error) {
	var (
		file      string
		connected bool
	)
	defer func() {
		if err == nil {
			return
		}
		if Suppressed(err, a.Connection.Suppression, connected) {
			logger.WithError(err).WithField("file", file).Warn("suppressed failure")
			err = nil
			return
		}
		err = &PrimeError{Activity: a.Name, File: file, Err: err}
	}()

	conn, err := p.connect(ctx, a)
	if err != nil {
		return err
	}
	connected = true
	defer func() {
		if cerr := conn.Close(); err == nil {
			err = cerr
		}
	}()

	if err := conn.SetAutoCommit(a.Connection.AutoCommitEnabled()); err != nil {
		return err
	}

	logger.Info("priming database")
	for _, name := range a.Primer.Files {
		file = name
		n, err := p.executeFile(ctx, conn, name, logger)
		if err != nil {
			return err
		}
		logger.WithFields(logrus.Fields{
			"file":       name,
			"statements": n,
		}).Info("executed primer file")
	}
	return nil
}

// connect resolves the connection string, driver and properties of a,
// letting runtime parameters win over what a declares.
func (p *Primer) connect(ctx context.Context, a Activity) (endpoint.Conn, error) {
	url := p.Params.Effective(settings.DatabaseURL, a.Name, a.Connection.URL)
	if url == "" {
		return nil, ErrNoDatabaseURL
	}
	driver := p.Params.Effective(settings.Driver, a.Name, a.Connection.Driver)

	props := make(map[string]string, len(a.Connection.Properties))
	maps.Copy(props, a.Connection.Properties)
	if path, ok := p.Params.ValueFor(settings.DriverPropertiesFile, a.Name); ok {
		load := p.LoadProperties
		if load == nil {
			load = settings.LoadProperties
		}
		fileProps, err := load(path)
		if err != nil {
			return nil, err
		}
		maps.Copy(props, fileProps)
	}

	if p.Registry == nil {
		return nil, errors.New("no drivers registered")
	}
	if driver != "" {
		return p.Registry.ConnectWith(ctx, driver, url, props)
	}
	return p.Registry.Connect(ctx, url, props)
}

// executeFile executes the statements of one primer file in order. With
// auto commit off the file is committed at its end and rolled back on
// failure.
func (p *Primer) executeFile(ctx context.Context, conn endpoint.Conn, name string, logger logrus.FieldLogger) (n int, err error) {
	defer func() {
		if err != nil && !conn.AutoCommit() {
			if rerr := conn.Rollback(ctx); rerr != nil {
				err = errors.Join(err, rerr)
			}
		}
	}()

	if p.FS == nil {
		return 0, errors.New("no primer files available")
	}
	f, err := p.FS.Open(name)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	s := sqlparser.NewScanner(f)
	for s.Next() {
		pos := sqlparser.Pos{File: sqlparser.FileRef(name), Line: s.Line()}
		logger.WithField("pos", pos.String()).Debug("executing statement")
		if _, err := conn.Execute(ctx, s.Statement()); err != nil {
			return n, fmt.Errorf("%s: %w", pos, err)
		}
		n++
	}
	if err := s.Err(); err != nil {
		return n, err
	}

	if !conn.AutoCommit() {
		if err := conn.Commit(ctx); err != nil {
			return n, err
		}
	}
	return n, nil
}

func (p *Primer) logger() logrus.FieldLogger {
	if p.Logger == nil {
		return logrus.StandardLogger()
	}
	return p.Logger
}
