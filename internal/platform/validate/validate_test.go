// Copyright (c) 2026 Polyglot. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/polyglot/internal/platform/apperr"
	"github.com/taibuivan/polyglot/internal/platform/validate"
)

/*
TestValidator_Required verifies empty and whitespace-only values fail.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"valid value", "hello", false},
		{"empty string", "", true},
		{"whitespace only", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required("field", tt.value)
			assert.Equal(t, tt.wantErr, v.HasErrors())
		})
	}
}

/*
TestValidator_Lengths verifies rune-based length rules.
*/
func TestValidator_Lengths(t *testing.T) {
	v := &validate.Validator{}
	v.MaxLen("title", "héllo", 5)
	v.MinLen("title", "héllo", 5)
	assert.False(t, v.HasErrors())

	v = &validate.Validator{}
	v.MaxLen("title", "toolong", 5)
	assert.True(t, v.HasErrors())

	v = &validate.Validator{}
	v.MinLen("title", "ab", 3)
	assert.True(t, v.HasErrors())
}

/*
TestValidator_Slug verifies slug format rules.
*/
func TestValidator_Slug(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"simple", "hello", false},
		{"hyphenated", "hello-world-2", false},
		{"uppercase", "Hello", true},
		{"leading hyphen", "-hello", true},
		{"trailing hyphen", "hello-", true},
		{"underscore", "hello_world", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Slug("slug", tt.value)
			assert.Equal(t, tt.wantErr, v.HasErrors())
		})
	}
}

/*
TestValidator_UUID verifies UUID validation is case-insensitive.
*/
func TestValidator_UUID(t *testing.T) {
	v := &validate.Validator{}
	v.UUID("id", "0190cafe-0000-7000-8000-000000000001")
	assert.False(t, v.HasErrors())

	v = &validate.Validator{}
	v.UUID("id", "0190CAFE-0000-7000-8000-000000000001")
	assert.False(t, v.HasErrors())

	v = &validate.Validator{}
	v.UUID("id", "not-a-uuid")
	assert.True(t, v.HasErrors())
}

/*
TestValidator_OneOf verifies membership checks.
*/
func TestValidator_OneOf(t *testing.T) {
	v := &validate.Validator{}
	v.OneOf("dir", "next", "next", "prev")
	assert.False(t, v.HasErrors())

	v = &validate.Validator{}
	v.OneOf("dir", "sideways", "next", "prev")
	assert.True(t, v.HasErrors())
}

/*
TestValidator_Err verifies error aggregation into a single VALIDATION_ERROR.
*/
func TestValidator_Err(t *testing.T) {
	v := &validate.Validator{}
	assert.NoError(t, v.Err())

	v.Required("title", "")
	v.Custom("locale", true, `Unknown locale key "xx"`)

	err := v.Err()
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	require.Len(t, ae.Details, 2)
	assert.Equal(t, "title", ae.Details[0].Field)
	assert.Equal(t, "locale", ae.Details[1].Field)
}

/*
TestCleanText verifies line-ending normalization and control stripping.
*/
func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text", "hello world", "hello world"},
		{"crlf normalized", "line1\r\nline2", "line1\nline2"},
		{"bare cr normalized", "line1\rline2", "line1\nline2"},
		{"newline and tab kept", "a\n\tb", "a\n\tb"},
		{"nul stripped", "a\x00b", "ab"},
		{"control range stripped", "a\x01\x02\x1fb", "ab"},
		{"delete stripped", "a\x7fb", "ab"},
		{"markup preserved", "<p>bold &amp; brave</p>", "<p>bold &amp; brave</p>"},
		{"unicode preserved", "café — naïve", "café — naïve"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validate.CleanText(tt.input))
		})
	}
}
