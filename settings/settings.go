// Package settings resolves per-activity runtime parameters. A parameter
// can be given as a define (`-D sqlprime.main.url=...`) or as an
// environment variable (`SQLPRIME_main_URL=...`); a define wins.
package settings

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

// EnvPrefix is the prefix of every environment variable read as a parameter.
const EnvPrefix = "SQLPRIME_"

// Parameter names a runtime parameter. Both templates take the activity
// name as their only argument.
type Parameter struct {
	Define string
	Env    string
}

var (
	DatabaseURL = Parameter{
		Define: "sqlprime.%s.url",
		Env:    EnvPrefix + "%s_URL",
	}
	Driver = Parameter{
		Define: "sqlprime.%s.driver",
		Env:    EnvPrefix + "%s_DRIVER",
	}
	DriverPropertiesFile = Parameter{
		Define: "sqlprime.%s.driverPropertiesFile",
		Env:    EnvPrefix + "%s_DRIVER_PROPERTIES_FILE",
	}
)

func (p Parameter) DefineKey(activity string) string {
	return fmt.Sprintf(p.Define, activity)
}

func (p Parameter) EnvKey(activity string) string {
	return fmt.Sprintf(p.Env, activity)
}

// Parameters holds the defines and environment a run was started with.
// A nil *Parameters has no values.
type Parameters struct {
	defines *koanf.Koanf
	env     *koanf.Koanf
}

// NewParameters reads the SQLPRIME_ environment variables and takes
// defines as given on the command line.
func NewParameters(defines map[string]string) (*Parameters, error) {
	p := &Parameters{
		defines: koanf.New("."),
		env:     koanf.New("."),
	}

	m := make(map[string]interface{}, len(defines))
	for k, v := range defines {
		m[k] = v
	}
	if err := p.defines.Load(confmap.Provider(m, "."), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load defines")
	}
	// environment keys are kept verbatim; activity names are case sensitive
	if err := p.env.Load(env.Provider(EnvPrefix, ".", func(s string) string { return s }), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load environment")
	}
	return p, nil
}

// ValueFor looks up param for activity, preferring a define over an
// environment variable. A parameter set to the empty string is present.
func (p *Parameters) ValueFor(param Parameter, activity string) (string, bool) {
	if p == nil {
		return "", false
	}
	if key := param.DefineKey(activity); p.defines.Exists(key) {
		return p.defines.String(key), true
	}
	if key := param.EnvKey(activity); p.env.Exists(key) {
		return p.env.String(key), true
	}
	return "", false
}

// Effective returns the runtime value of param, or declared when there is
// none.
func (p *Parameters) Effective(param Parameter, activity string, declared string) string {
	if v, ok := p.ValueFor(param, activity); ok {
		return v
	}
	return declared
}

// LoadProperties reads a YAML driver properties file. Nested keys are
// joined with dots; every value is read as a string.
func LoadProperties(path string) (map[string]string, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "error reading driver properties file %s", path)
	}
	props := make(map[string]string)
	for _, key := range k.Keys() {
		props[key] = strings.TrimSpace(k.String(key))
	}
	return props, nil
}
