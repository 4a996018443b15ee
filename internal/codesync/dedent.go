package codesync

import "strings"

// Dedent removes the common leading indentation of the non-blank lines of s.
// Blank lines shorter than the margin become empty.
func Dedent(s string) string {
	lines := strings.Split(s, "\n")
	margin := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		if n := leading(l); margin < 0 || n < margin {
			margin = n
		}
	}
	if margin <= 0 {
		return s
	}
	for i, l := range lines {
		if leading(l) >= margin {
			lines[i] = l[margin:]
		} else {
			lines[i] = strings.TrimLeft(l, " \t")
		}
	}
	return strings.Join(lines, "\n")
}

// Normalize is the whitespace normalization applied to multi-line payload
// bodies read back from the editor.
func Normalize(s string) string {
	return strings.TrimSpace(Dedent(s))
}

func leading(l string) int {
	return len(l) - len(strings.TrimLeft(l, " \t"))
}

// indent prefixes every non-empty line of s.
func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}
