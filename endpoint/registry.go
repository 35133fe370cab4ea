package endpoint

import (
	"context"
	"fmt"
	"net/url"
)

// Registry holds the resolvers known to a process, in registration order.
// It is populated at startup; there is no global registry.
type Registry struct {
	entries []entry
}

type entry struct {
	name     string
	resolver Resolver
}

// NewRegistry registers each resolver under its own name.
func NewRegistry(resolvers ...Resolver) *Registry {
	r := &Registry{}
	for _, res := range resolvers {
		r.Register(res.Name(), res)
	}
	return r
}

// Register adds res under name. Registering a name again replaces the
// earlier resolver but keeps its position.
func (r *Registry) Register(name string, res Resolver) {
	for i := range r.entries {
		if r.entries[i].name == name {
			r.entries[i].resolver = res
			return
		}
	}
	r.entries = append(r.entries, entry{name: name, resolver: res})
}

// Names lists registered resolver names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		names = append(names, e.name)
	}
	return names
}

func (r *Registry) lookup(name string) (Resolver, bool) {
	for _, e := range r.entries {
		if e.name == name {
			return e.resolver, true
		}
	}
	return nil, false
}

// Accepts returns the name of the first resolver accepting s.
func (r *Registry) Accepts(s string) (string, bool, error) {
	for _, e := range r.entries {
		ok, err := e.resolver.AcceptsConnectionString(s)
		if err != nil {
			return "", false, err
		}
		if ok {
			return e.name, true, nil
		}
	}
	return "", false, nil
}

// Connect opens s with the first resolver accepting it.
func (r *Registry) Connect(ctx context.Context, s string, props map[string]string) (Conn, error) {
	name, ok, err := r.Accepts(s)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NoResolverError{ConnectionString: s, Available: r.Names()}
	}
	return r.ConnectWith(ctx, name, s, props)
}

// ConnectWith opens s with the named resolver.
func (r *Registry) ConnectWith(ctx context.Context, name string, s string, props map[string]string) (Conn, error) {
	res, ok := r.lookup(name)
	if !ok {
		return nil, &NoResolverError{Name: name, ConnectionString: s, Available: r.Names()}
	}
	conn, err := res.Connect(ctx, s, props)
	if err != nil {
		return nil, err
	}
	if conn == nil {
		return nil, &NoResolverError{Name: name, ConnectionString: s, Available: r.Names()}
	}
	return conn, nil
}

// NoResolverError is returned when no resolver can open a connection string.
type NoResolverError struct {
	// Name is set when a specific resolver was asked for.
	Name             string
	ConnectionString string
	Available        []string
}

func (e *NoResolverError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("driver %q cannot open connection string %q\nAvailable drivers: %v",
			e.Name, Redact(e.ConnectionString), e.Available)
	}
	return fmt.Sprintf("no driver accepts connection string %q\nAvailable drivers: %v",
		Redact(e.ConnectionString), e.Available)
}

// Redact hides the password of URL-style connection strings.
func Redact(s string) string {
	u, err := url.Parse(s)
	if err != nil {
		return "(unparseable)"
	}
	return u.Redacted()
}
