// Copyright (c) 2026 Polyglot. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package locale

import (
	"fmt"
	"strings"

	"github.com/taibuivan/polyglot/pkg/slug"
)

// ParseVariables builds a [Scheme] from the compact configuration string
// used by the LOCALE_VARIABLES environment variable.
//
// # Format
//
// Semicolon-separated variables, each "name=slug,slug,...". A trailing '*'
// marks the default slug; without a marker the first slug is the default.
//
// Example:
//
//	lang=en*,fr;region=us*,uk
//
// Slugs are normalized through pkg/slug so accented or upper-case input
// cannot produce keys that differ from their URL form.
func ParseVariables(spec string) (*Scheme, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, fmt.Errorf("locale: empty variable specification")
	}

	var vars []Variable
	for _, part := range strings.Split(spec, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		name, slugList, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("locale: malformed variable %q (want name=slug,...)", part)
		}

		v := Variable{Name: strings.TrimSpace(name)}
		for _, raw := range strings.Split(slugList, ",") {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}

			isDefault := strings.HasSuffix(raw, "*")
			raw = strings.TrimSuffix(raw, "*")

			normalized := slug.From(raw)
			if normalized == "" {
				return nil, fmt.Errorf("locale: variable %q slug %q normalizes to empty", v.Name, raw)
			}

			v.Slugs = append(v.Slugs, normalized)
			if isDefault {
				v.Default = normalized
			}
		}

		if len(v.Slugs) == 0 {
			return nil, fmt.Errorf("locale: variable %q has no slugs", v.Name)
		}
		if v.Default == "" {
			v.Default = v.Slugs[0]
		}

		vars = append(vars, v)
	}

	return NewScheme(vars...)
}
