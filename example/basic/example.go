package example

import (
	"context"
	"embed"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/vippsas/sqlprime"
	"github.com/vippsas/sqlprime/capture"
	"github.com/vippsas/sqlprime/endpoint"
)

//go:embed primers/*.sql
var primers embed.FS

var Activity = sqlprime.Activity{
	Name:       "example",
	Connection: sqlprime.ConnectionSettings{URL: "capture:example.sql"},
	Primer: sqlprime.PrimerSettings{
		Files: []string{"primers/schema.sql", "primers/grants.sql"},
	},
}

// Capture primes the example activity, recording the statements to w
// instead of running them.
func Capture(ctx context.Context, w io.Writer, logger logrus.FieldLogger) error {
	driver := &capture.Driver{
		Logger: logger,
		OpenSink: func(string) (capture.Sink, error) {
			return capture.NewWriterSink(w), nil
		},
	}
	primer := &sqlprime.Primer{
		Registry: endpoint.NewRegistry(endpoint.CaptureResolver(driver)),
		FS:       primers,
		Logger:   logger,
	}
	return primer.PrimeActivity(ctx, Activity)
}
