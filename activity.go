package sqlprime

// Activity names a database to prime and the primer files to prime it with.
type Activity struct {
	// Name is the key the activity is configured under.
	Name       string             `yaml:"-"`
	Connection ConnectionSettings `yaml:"connection"`
	Primer     PrimerSettings     `yaml:"primer"`
}

type ConnectionSettings struct {
	// URL is the connection string. It can be overridden at runtime.
	URL string `yaml:"url"`
	// Driver selects a resolver by name instead of by URL.
	Driver string `yaml:"driver"`
	// AutoCommit defaults to true. When false each primer file runs as
	// one unit that is committed at its end.
	AutoCommit *bool             `yaml:"autocommit"`
	Properties map[string]string `yaml:"properties"`
	// Suppression turns failures that happen after connecting into
	// warnings. Nil means failures are never suppressed.
	Suppression *SuppressionSettings `yaml:"suppress"`
}

func (c ConnectionSettings) AutoCommitEnabled() bool {
	return c.AutoCommit == nil || *c.AutoCommit
}

type SuppressionSettings struct {
	// MessageFilters lists substrings of error messages to suppress. Nil
	// suppresses every error; an empty list suppresses none.
	MessageFilters []string `yaml:"messageFilters"`
}

type PrimerSettings struct {
	Files []string `yaml:"files"`
}
