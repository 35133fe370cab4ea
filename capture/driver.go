package capture

import (
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
)

// Scheme prefixes every capture connection string.
const Scheme = "capture"

// connectionStringPattern matches `capture:<location>[?key=value;...]`.
var connectionStringPattern = regexp.MustCompile(`^` + Scheme + `:([^?]+)(\?(\w+=\w+;)+)?$`)

// Driver resolves capture connection strings into connections.
type Driver struct {
	Logger logrus.FieldLogger

	// OpenSink opens the sink at a connection string's location. Defaults
	// to OpenFileSink.
	OpenSink func(location string) (Sink, error)
}

// AcceptsConnectionString reports whether s is a capture connection string.
func (d *Driver) AcceptsConnectionString(s string) (bool, error) {
	if s == "" {
		return false, ErrNullConnectionString
	}
	return connectionStringPattern.MatchString(s), nil
}

// Connect opens a capture connection for s. Properties in the connection
// string are defaults; props overrides them key by key.
//
// A string that is not a capture connection string gives a nil Conn and a
// nil error, so that a registry can try other resolvers.
func (d *Driver) Connect(s string, props Properties) (*Conn, error) {
	if s == "" {
		return nil, ErrNullConnectionString
	}
	location, effective, ok := ParseConnectionString(s)
	if !ok {
		return nil, nil
	}
	for k, v := range props {
		effective[k] = v
	}
	config := ConfigFromProperties(effective)

	sink, err := d.openSink(location)
	if err != nil {
		return nil, err
	}

	logger := d.logger().WithField("location", location)
	logger.WithField("config", config.String()).Debug("opened capture connection")
	return NewConn(sink, config, logger), nil
}

// ParseConnectionString splits a capture connection string into its
// location and properties.
func ParseConnectionString(s string) (location string, props Properties, ok bool) {
	m := connectionStringPattern.FindStringSubmatch(s)
	if m == nil {
		return "", nil, false
	}
	location = m[1]
	props = make(Properties)
	if _, query, found := strings.Cut(s, "?"); found {
		for _, pair := range strings.Split(query, ";") {
			if strings.TrimSpace(pair) == "" {
				continue
			}
			key, value, _ := strings.Cut(pair, "=")
			props[key] = value
		}
	}
	return location, props, true
}

// ConnectionString formats a capture connection string.
func ConnectionString(location string, props Properties) string {
	var sb strings.Builder
	sb.WriteString(Scheme + ":" + location)
	if len(props) > 0 {
		sb.WriteString("?")
		for _, key := range sortedKeys(props) {
			sb.WriteString(key + "=" + props[key] + ";")
		}
	}
	return sb.String()
}

func (d *Driver) openSink(location string) (Sink, error) {
	if d.OpenSink != nil {
		return d.OpenSink(location)
	}
	return OpenFileSink(location)
}

func (d *Driver) logger() logrus.FieldLogger {
	if d.Logger == nil {
		return logrus.StandardLogger()
	}
	return d.Logger
}
