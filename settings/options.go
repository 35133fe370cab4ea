package settings

import (
	"strings"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

// Options are the command line options. Each can also be set through an
// environment variable, e.g. SQLPRIME_DIRECTORY; a flag given explicitly
// wins.
type Options struct {
	Directory string `koanf:"directory"`
	Config    string `koanf:"config"`
	Verbose   bool   `koanf:"verbose"`
	Parallel  int    `koanf:"parallel"`
}

var defaultOptions = map[string]interface{}{
	"directory": ".",
	"config":    "sqlprime.yaml",
	"verbose":   false,
	"parallel":  0,
}

// LoadOptions reads Options from defaults, the environment and flags, in
// increasing order of precedence. flags may be nil.
func LoadOptions(flags *pflag.FlagSet) (Options, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaultOptions, "."), nil); err != nil {
		return Options{}, errors.Wrap(err, "failed to load defaults")
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		if _, ok := defaultOptions[key]; !ok {
			// activity parameters share the prefix
			return ""
		}
		return key
	}), nil); err != nil {
		return Options{}, errors.Wrap(err, "failed to load env vars")
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			if _, ok := defaultOptions[f.Name]; !ok {
				return "", nil
			}
			return f.Name, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return Options{}, errors.Wrap(err, "failed to load flags")
		}
	}

	var opts Options
	if err := k.Unmarshal("", &opts); err != nil {
		return Options{}, errors.Wrap(err, "unable to decode options")
	}
	return opts, nil
}
