// Copyright (c) 2026 Polyglot. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query parses list-shaped URL query parameters.
//
// Handlers use it to read comma-separated post-type lists and term-taxonomy
// id lists without repeating strconv boilerplate.
package query

import (
	"strconv"
	"strings"
)

// IntSlice parses a single comma-separated query string into a slice of
// integers. Invalid entries are ignored safely.
func IntSlice(val string) []int {
	if val == "" {
		return nil
	}
	var res []int
	for _, v := range strings.Split(val, ",") {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			res = append(res, i)
		}
	}
	return res
}

// StringSlice parses a single comma-separated query string
// into a trimmed slice of strings.
func StringSlice(val string) []string {
	if val == "" {
		return nil
	}
	var res []string
	for _, v := range strings.Split(val, ",") {
		clean := strings.TrimSpace(v)
		if clean != "" {
			res = append(res, clean)
		}
	}
	return res
}
