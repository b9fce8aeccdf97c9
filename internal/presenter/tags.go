package presenter

import (
	"strings"
	"unicode/utf8"
)

const tagSeparator = " · "

// WrapTags joins tags with a dot separator, breaking into lines no wider than
// width runes. A tag wider than width gets a line of its own. Empty tags are
// skipped.
func WrapTags(tags []string, width int) []string {
	var (
		lines []string
		line  strings.Builder
		used  int
	)

	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		n := utf8.RuneCountInString(tag)

		if used > 0 && width > 0 && used+utf8.RuneCountInString(tagSeparator)+n > width {
			lines = append(lines, line.String())
			line.Reset()
			used = 0
		}
		if used > 0 {
			line.WriteString(tagSeparator)
			used += utf8.RuneCountInString(tagSeparator)
		}
		line.WriteString(tag)
		used += n
	}

	if used > 0 {
		lines = append(lines, line.String())
	}
	return lines
}
