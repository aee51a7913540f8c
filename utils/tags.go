package utils

import "strings"

// NormalizeTags turns raw tag input (comma-separated strings, repeated fields,
// or both) into a deduplicated list of lowercase trimmed tags, preserving
// first-seen order. Applied identically on the create and update paths.
func NormalizeTags(raw []string) []string {
	seen := make(map[string]bool)
	tags := make([]string, 0, len(raw))

	for _, chunk := range raw {
		for _, tag := range strings.Split(chunk, ",") {
			tag = strings.ToLower(strings.TrimSpace(tag))
			if tag == "" || seen[tag] {
				continue
			}
			seen[tag] = true
			tags = append(tags, tag)
		}
	}

	return tags
}
