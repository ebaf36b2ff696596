package utils

import (
	"fmt"

	"github.com/gosimple/slug"
)

// Slugify derives a URL-safe slug from an article title.
func Slugify(title string) string {
	return slug.Make(title)
}

// SlugWithSuffix appends a numeric discriminator for titles whose plain slug
// is already taken.
func SlugWithSuffix(title string, n int) string {
	return fmt.Sprintf("%s-%d", slug.Make(title), n)
}
