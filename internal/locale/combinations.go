// Copyright (c) 2026 Polyglot. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package locale

// Combinations enumerates every valid slug combination as the cartesian
// product of the variables' slug sets, in variable order.
//
// The ordering is deterministic and stable across calls for identical
// configuration: the last variable varies fastest. Admin screens rely on
// this so per-locale fields always render in the same order.
func (s *Scheme) Combinations() [][]string {
	total := 1
	for _, v := range s.vars {
		total *= len(v.Slugs)
	}

	combos := make([][]string, 0, total)
	current := make([]string, len(s.vars))

	var walk func(depth int)
	walk = func(depth int) {
		if depth == len(s.vars) {
			combo := make([]string, len(current))
			copy(combo, current)
			combos = append(combos, combo)
			return
		}
		for _, slug := range s.vars[depth].Slugs {
			current[depth] = slug
			walk(depth + 1)
		}
	}
	walk(0)

	return combos
}

// KeyToCombination returns the reverse index from computed key to the slug
// tuple that produced it.
//
// Given distinct slug sets the mapping is bijective with [Scheme.Combinations]
// and has size equal to the product of each variable's slug-set cardinality.
//
// When excludeDefault is true the single all-defaults entry is removed. Admin
// forms use this: the default-locale field is shown through a distinct,
// unprefixed control and must not be duplicated.
func (s *Scheme) KeyToCombination(excludeDefault bool) map[Key][]string {
	combos := s.Combinations()
	index := make(map[Key][]string, len(combos))

	for _, combo := range combos {
		key := join(combo)
		if excludeDefault && key == s.defaultKey {
			continue
		}
		index[key] = combo
	}

	return index
}

// Keys returns every key in enumeration order, optionally excluding the
// default key. Unlike [Scheme.KeyToCombination] the result preserves the
// deterministic combination order.
func (s *Scheme) Keys(excludeDefault bool) []Key {
	combos := s.Combinations()
	keys := make([]Key, 0, len(combos))

	for _, combo := range combos {
		key := join(combo)
		if excludeDefault && key == s.defaultKey {
			continue
		}
		keys = append(keys, key)
	}

	return keys
}
