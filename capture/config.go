package capture

import (
	"maps"
	"slices"
	"strconv"
)

// PropertyForceFailure is the property key toggling Config.ForceFailureOnAllOperations.
const PropertyForceFailure = "forceFailureOnAllOperations"

// Properties is a flat set of connection properties, as found in the
// query part of a connection string or supplied by a caller.
type Properties map[string]string

// Config is the immutable configuration of a capture connection.
type Config struct {
	// ForceFailureOnAllOperations makes every Execute and Commit fail with
	// ErrForcedFailure, for exercising failure handling upstream.
	ForceFailureOnAllOperations bool
}

// ConfigFromProperties reads a Config from properties. Only the exact
// literal "true" enables a flag; absent or unparseable values leave it off.
func ConfigFromProperties(props Properties) Config {
	return Config{
		ForceFailureOnAllOperations: props[PropertyForceFailure] == "true",
	}
}

func (c Config) Properties() Properties {
	return Properties{
		PropertyForceFailure: strconv.FormatBool(c.ForceFailureOnAllOperations),
	}
}

func (c Config) String() string {
	return PropertyForceFailure + "=" + strconv.FormatBool(c.ForceFailureOnAllOperations)
}

func sortedKeys(props Properties) []string {
	return slices.Sorted(maps.Keys(props))
}
