package utils

import (
	"regexp"
	"strings"
)

// SlugFallback được dùng khi display name không còn ký tự nào hợp lệ
const SlugFallback = "user"

var (
	slugInvalidRun = regexp.MustCompile(`[^a-z0-9]+`)
	slugPattern    = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
)

// GenerateSlug chuẩn hóa display name thành slug
// "  Alice Smith! " → "alice-smith", "!!!" → "user"
func GenerateSlug(input string) string {
	// Step 1: lowercase + trim
	lower := strings.ToLower(strings.TrimSpace(input))

	// Step 2: mỗi run ký tự ngoài [a-z0-9] thành một "-"
	hyphenated := slugInvalidRun.ReplaceAllString(lower, "-")

	// Step 3: trim leading/trailing hyphens
	trimmed := strings.Trim(hyphenated, "-")

	if trimmed == "" {
		return SlugFallback
	}
	return trimmed
}

// IsValidSlug kiểm tra slug có đúng format `^[a-z0-9]+(-[a-z0-9]+)*$`
func IsValidSlug(slug string) bool {
	return slugPattern.MatchString(slug)
}
