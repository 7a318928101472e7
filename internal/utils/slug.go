// internal/utils/slug.go
package utils

import (
	"fmt"

	"github.com/gosimple/slug"
)

// Slugify derives a URL-safe slug from a title.
func Slugify(text string) string {
	return slug.Make(text)
}

// UniqueSlug disambiguates a base slug with a numeric suffix: the first
// collision becomes "<base>-1", the next "<base>-2", and so on. exists
// reports whether a candidate is already taken.
func UniqueSlug(base string, exists func(string) bool) string {
	candidate := base
	for counter := 1; exists(candidate); counter++ {
		candidate = fmt.Sprintf("%s-%d", base, counter)
	}
	return candidate
}
