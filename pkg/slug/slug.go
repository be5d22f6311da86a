// Copyright (c) 2026 Book Dolphin. All rights reserved.
// Author: platform@bookdolphin.io

// Package slug produces canonical URL segments for catalog entities.
//
// # Contract
//
// Slugs are stored verbatim and participate in unique indexes and
// materialised paths, so normalisation must be a stable, byte-exact
// drop-filter: no transliteration, no locale rules. Two raw strings that
// normalise equal are the same slug forever.
package slug

import (
	"regexp"
	"strings"
)

var (
	// whitespaceRun matches any run of Unicode whitespace.
	whitespaceRun = regexp.MustCompile(`\s+`)
	// hyphenRun collapses multiple consecutive hyphens into one.
	hyphenRun = regexp.MustCompile(`-{2,}`)
	// disallowed matches every character outside the slug alphabet.
	disallowed = regexp.MustCompile(`[^a-z0-9-]`)
)

// Normalize converts a raw string into a canonical slug.
//
// # Pipeline
//
// 1. Trim surrounding whitespace.
// 2. Lowercase.
// 3. Replace whitespace runs with a single hyphen.
// 4. Collapse hyphen runs.
// 5. Drop every character outside [a-z0-9-].
//
// An empty result means the input had no usable characters; callers treat
// that as a validation failure.
func Normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = whitespaceRun.ReplaceAllString(s, "-")
	s = hyphenRun.ReplaceAllString(s, "-")
	s = disallowed.ReplaceAllString(s, "")
	return s
}

// IsValid reports whether s is already in canonical slug form.
func IsValid(s string) bool {
	return s != "" && Normalize(s) == s
}
