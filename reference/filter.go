package reference

import "strings"

// Filter returns, in source order, the lines whose lower-cased text contains
// the lower-cased section or offense term, truncated to the first limit
// matches. An empty term matches every line; limit <= 0 yields no rows.
func Filter(lines []string, section, offense string, limit int) []string {
	if limit <= 0 {
		return nil
	}

	section = strings.ToLower(section)
	offense = strings.ToLower(offense)

	var matches []string
	for _, line := range lines {
		lower := strings.ToLower(line)
		if strings.Contains(lower, section) || strings.Contains(lower, offense) {
			matches = append(matches, line)
			if len(matches) == limit {
				break
			}
		}
	}
	return matches
}

// Excerpt joins filtered rows into the prompt's reference block
func Excerpt(rows []string) string {
	return strings.Join(rows, "\n")
}
