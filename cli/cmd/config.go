package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vippsas/sqlprime"
	"github.com/vippsas/sqlprime/capture"
	"github.com/vippsas/sqlprime/endpoint"
	"github.com/vippsas/sqlprime/go/mapfs"
	"github.com/vippsas/sqlprime/settings"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Activities map[string]sqlprime.Activity `yaml:"activities"`
}

// LoadConfig reads the configuration file name in dir.
func LoadConfig(dir, name string) (Config, error) {
	var result Config

	configFilename := filepath.Join(dir, name)
	if _, err := os.Stat(configFilename); os.IsNotExist(err) {
		return Config{}, errors.Errorf("No %s found in %s", name, dir)
	}

	yamlFile, err := os.ReadFile(configFilename)
	if err != nil {
		return Config{}, err
	}
	err = yaml.Unmarshal(yamlFile, &result)
	if err != nil {
		return Config{}, errors.Wrapf(err, "invalid %s", configFilename)
	}

	for key, activity := range result.Activities {
		activity.Name = key
		result.Activities[key] = activity
	}
	return result, nil
}

// Select returns the named activities, or all of them sorted by name when
// no names are given.
func (c Config) Select(names ...string) ([]sqlprime.Activity, error) {
	if len(names) == 0 {
		names = make([]string, 0, len(c.Activities))
		for name := range c.Activities {
			names = append(names, name)
		}
		sort.Strings(names)
	}

	result := make([]sqlprime.Activity, 0, len(names))
	for _, name := range names {
		activity, ok := c.Activities[name]
		if !ok {
			return nil, errors.New(fmt.Sprintf("activity %s not present in configuration file", name))
		}
		result = append(result, activity)
	}
	return result, nil
}

// PrimerFS maps the primer files of activities to paths below dir.
func PrimerFS(dir string, activities []sqlprime.Activity) mapfs.MapFS {
	var names []string
	for _, a := range activities {
		names = append(names, a.Primer.Files...)
	}
	return mapfs.Resolve(dir, names...)
}

func NewRegistry(logger logrus.FieldLogger) *endpoint.Registry {
	return endpoint.NewRegistry(
		endpoint.CaptureResolver(&capture.Driver{Logger: logger}),
		&endpoint.SQLResolver{Logger: logger},
	)
}

func newPrimer(logger logrus.FieldLogger, activities []sqlprime.Activity) (*sqlprime.Primer, error) {
	params, err := settings.NewParameters(defines)
	if err != nil {
		return nil, err
	}
	return &sqlprime.Primer{
		Registry: NewRegistry(logger),
		Params:   params,
		FS:       PrimerFS(options.Directory, activities),
		Logger:   logger,
	}, nil
}
