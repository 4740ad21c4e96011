// Copyright (c) 2026 Polyglot. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package locale implements the locale-key scheme at the heart of Polyglot.

A site configures an ordered set of query variables (a language axis, a region
axis, ...). Each variable recognizes a fixed set of slugs with one designated
default. A locale key is the underscore-joined selection of one slug per
variable, in variable order: the scheme {lang: [en*, fr], region: [us*, uk]}
yields the keys "en_us" (default), "en_uk", "fr_us" and "fr_uk".

Architecture:

  - Scheme: immutable configuration, constructed once at startup and passed
    by reference into every component that needs it. There are no package
    globals.
  - Resolution never fails: invalid or missing slugs silently degrade to the
    variable's default, because malformed query state must not break rendering.
*/
package locale

import (
	"fmt"
	"net/url"
	"strings"
)

// Separator joins the per-variable slugs into a key.
const Separator = "_"

// Key is a resolved locale key, e.g. "fr_uk".
//
// Keys are derived on every read and never persisted directly; metadata keys
// embed them as a suffix (see the constants package prefixes).
type Key string

// String implements fmt.Stringer.
func (k Key) String() string { return string(k) }

// Variable is one configured query-variable axis.
//
// Its position in the scheme is its registration order; Slugs keep their
// configured order so combination enumeration stays deterministic.
type Variable struct {
	// Name is the query-variable name, e.g. "lang".
	Name string

	// Slugs is the ordered, non-empty set of recognized slug values.
	Slugs []string

	// Default is the designated default slug. Must be a member of Slugs.
	Default string
}

// recognizes reports whether slug is one of the variable's recognized slugs.
func (v Variable) recognizes(slug string) bool {
	for _, s := range v.Slugs {
		if s == slug {
			return true
		}
	}
	return false
}

// Scheme is the immutable set of configured variables.
//
// # Concurrency
//
// A Scheme is constructed once during startup and is read-only afterwards,
// so it is safe for concurrent use without locking.
type Scheme struct {
	vars       []Variable
	defaultKey Key
}

// NewScheme validates the variable definitions and builds a Scheme.
//
// Each variable must have a non-empty name, a non-empty slug set and a
// default slug that is a member of its slug set. Duplicate variable names
// are rejected.
func NewScheme(vars ...Variable) (*Scheme, error) {
	if len(vars) == 0 {
		return nil, fmt.Errorf("locale: scheme requires at least one variable")
	}

	seen := make(map[string]struct{}, len(vars))
	for _, v := range vars {
		if strings.TrimSpace(v.Name) == "" {
			return nil, fmt.Errorf("locale: variable with empty name")
		}
		if _, dup := seen[v.Name]; dup {
			return nil, fmt.Errorf("locale: duplicate variable %q", v.Name)
		}
		seen[v.Name] = struct{}{}

		if len(v.Slugs) == 0 {
			return nil, fmt.Errorf("locale: variable %q has no slugs", v.Name)
		}
		if !v.recognizes(v.Default) {
			return nil, fmt.Errorf("locale: variable %q default %q is not a recognized slug", v.Name, v.Default)
		}
	}

	s := &Scheme{vars: vars}

	// The default key is computed exactly once. Default-key membership is
	// always checked against this value, never by string pattern.
	defaults := make([]string, len(vars))
	for i, v := range vars {
		defaults[i] = v.Default
	}
	s.defaultKey = join(defaults)

	return s, nil
}

// join builds a Key from one slug per variable, in variable order.
func join(slugs []string) Key {
	return Key(strings.Join(slugs, Separator))
}

// Variables returns the configured variables in registration order.
func (s *Scheme) Variables() []Variable {
	out := make([]Variable, len(s.vars))
	copy(out, s.vars)
	return out
}

// VariableNames returns the ordered variable names.
func (s *Scheme) VariableNames() []string {
	names := make([]string, len(s.vars))
	for i, v := range s.vars {
		names[i] = v.Name
	}
	return names
}

// DefaultSlugs returns the ordered default slug per variable.
func (s *Scheme) DefaultSlugs() []string {
	defaults := make([]string, len(s.vars))
	for i, v := range s.vars {
		defaults[i] = v.Default
	}
	return defaults
}

// DefaultKey returns the key obtained when every variable resolves to its
// own default slug.
func (s *Scheme) DefaultKey() Key {
	return s.defaultKey
}

// IsDefault reports whether key is the scheme's default key.
func (s *Scheme) IsDefault(key Key) bool {
	return key == s.defaultKey
}

// # Key Resolution

// KeyFor derives a key from an explicit variable-name → slug selection.
//
// Unrecognized slugs and missing variables silently fall back to the
// variable's default. KeyFor never fails.
func (s *Scheme) KeyFor(selection map[string]string) Key {
	slugs := make([]string, len(s.vars))
	for i, v := range s.vars {
		slug, ok := selection[v.Name]
		if !ok || !v.recognizes(slug) {
			slug = v.Default
		}
		slugs[i] = slug
	}
	return join(slugs)
}

// KeyFromValues derives a key from resolved request query variables.
//
// A nil or empty values set resolves to the default key.
func (s *Scheme) KeyFromValues(values url.Values) Key {
	if len(values) == 0 {
		return s.defaultKey
	}

	selection := make(map[string]string, len(s.vars))
	for _, v := range s.vars {
		selection[v.Name] = values.Get(v.Name)
	}
	return s.KeyFor(selection)
}

// ResolveKey applies the full resolution precedence chain:
//
//  1. A non-empty explicit key passes through unchanged. It bypasses
//     per-variable validation — callers may pre-resolve.
//  2. A non-nil selection is validated per variable via [Scheme.KeyFor].
//  3. Request values are read via [Scheme.KeyFromValues].
//  4. Otherwise the default key is returned.
func (s *Scheme) ResolveKey(explicit Key, selection map[string]string, values url.Values) Key {
	if explicit != "" {
		return explicit
	}
	if selection != nil {
		return s.KeyFor(selection)
	}
	if values != nil {
		return s.KeyFromValues(values)
	}
	return s.defaultKey
}
