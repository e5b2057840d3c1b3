// Package routemeta is a startup-time registry of route annotations.
//
// Routes are identified by dot-separated keys ("catalog.products.create").
// Annotations may be registered for a route key or for any of its prefixes
// (a group). At request time Resolve merges them with the most specific
// registration winning per annotation kind. A key with no registration at
// all resolves to the default: authentication required, no role restriction.
package routemeta

import (
	"fmt"
	"strings"
)

// Annotation is the resolved access policy for a route.
type Annotation struct {
	// Public marks the route as requiring no authentication.
	Public bool

	// Roles lists the roles allowed on the route (OR semantics). Empty means
	// any authenticated tenant member may access it.
	Roles []string
}

// registration keeps per-kind presence so a group-level Public and a
// route-level Roles can coexist and override independently.
type registration struct {
	public   *bool
	roles    []string
	rolesSet bool
}

// Option declares one annotation kind on a registration.
type Option func(*registration)

// AsPublic marks the route or group as public.
func AsPublic() Option {
	return func(r *registration) {
		public := true
		r.public = &public
	}
}

// RequireRoles restricts the route or group to the given roles.
func RequireRoles(roles ...string) Option {
	return func(r *registration) {
		r.roles = append([]string(nil), roles...)
		r.rolesSet = true
	}
}

// Registry maps route keys to annotations. Populated during route wiring,
// read-only afterwards; concurrent reads need no synchronization.
type Registry struct {
	entries map[string]*registration
	sealed  bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*registration)}
}

// Register declares annotations for a route key or group prefix. Registering
// the same key twice is a wiring bug and is rejected rather than merged.
func (reg *Registry) Register(key string, opts ...Option) error {
	if reg.sealed {
		return fmt.Errorf("routemeta: registry is sealed, cannot register %q", key)
	}
	if key == "" {
		return fmt.Errorf("routemeta: empty route key")
	}
	if _, exists := reg.entries[key]; exists {
		return fmt.Errorf("routemeta: duplicate registration for %q", key)
	}

	r := &registration{}
	for _, opt := range opts {
		opt(r)
	}
	reg.entries[key] = r
	return nil
}

// MustRegister is Register for static wiring code; it panics on conflict,
// which surfaces the bug at startup instead of at request time.
func (reg *Registry) MustRegister(key string, opts ...Option) {
	if err := reg.Register(key, opts...); err != nil {
		panic(err)
	}
}

// Seal freezes the registry. Called once route wiring is complete.
func (reg *Registry) Seal() {
	reg.sealed = true
}

// Resolve returns the effective annotation for a route key. Group-level
// registrations apply outermost first, so the route-level one (or the
// longest matching prefix) wins for each annotation kind it sets.
func (reg *Registry) Resolve(key string) Annotation {
	ann := Annotation{}
	prefix := ""
	for _, label := range strings.Split(key, ".") {
		if prefix == "" {
			prefix = label
		} else {
			prefix = prefix + "." + label
		}
		r, ok := reg.entries[prefix]
		if !ok {
			continue
		}
		if r.public != nil {
			ann.Public = *r.public
		}
		if r.rolesSet {
			ann.Roles = r.roles
		}
	}
	return ann
}
