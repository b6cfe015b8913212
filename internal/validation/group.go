package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const MaxGroupTitleLen = 200

var groupSlugRegex = regexp.MustCompile(`^[a-z0-9-]{3,50}$`)

var reservedGroupSlugs = map[string]struct{}{
	"admin":   {},
	"auth":    {},
	"create":  {},
	"follow":  {},
	"health":  {},
	"media":   {},
	"metrics": {},
}

// ValidateGroupSlug validates group slug format and reserved names.
func ValidateGroupSlug(slug string) error {
	if !groupSlugRegex.MatchString(slug) {
		return fmt.Errorf("slug must be 3-50 characters and contain only lowercase letters, numbers, and hyphens")
	}

	if strings.HasPrefix(slug, "-") || strings.HasSuffix(slug, "-") {
		return fmt.Errorf("slug cannot start or end with a hyphen")
	}

	if _, exists := reservedGroupSlugs[slug]; exists {
		return fmt.Errorf("slug is reserved")
	}

	return nil
}

// ValidateGroupTitle requires a non-blank title of at most 200 characters.
func ValidateGroupTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title is required")
	}
	if utf8.RuneCountInString(title) > MaxGroupTitleLen {
		return fmt.Errorf("title must be at most %d characters", MaxGroupTitleLen)
	}
	return nil
}
