// internal/utils/slug_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "sea-view-3bhk-in-worli", Slugify("Sea View 3BHK in Worli"))
	assert.Equal(t, "2bhk-near-andheri-metro", Slugify("2BHK near Andheri Metro!"))
}

func TestUniqueSlug(t *testing.T) {
	taken := map[string]bool{
		"lake-view-apartment":   true,
		"lake-view-apartment-1": true,
	}
	exists := func(s string) bool { return taken[s] }

	assert.Equal(t, "fresh-slug", UniqueSlug("fresh-slug", exists))
	assert.Equal(t, "lake-view-apartment-2", UniqueSlug("lake-view-apartment", exists))
}
