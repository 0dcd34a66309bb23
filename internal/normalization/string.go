package normalization

import (
	"strings"
)

// ParseInputString trims and lower-cases. Used for usernames and search queries.
func ParseInputString(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// Field trims surrounding whitespace and keeps case.
func Field(input string) string {
	return strings.TrimSpace(input)
}
