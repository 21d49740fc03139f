package common

import (
	"regexp"
	"strings"
)

// CompileWildcard compiles a glob-style pattern (`*` matches any run of
// characters, `?` matches a single character) into a case-insensitive,
// fully anchored regular expression.
func CompileWildcard(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("(?i)^")
	for _, r := range pattern {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return regexp.Compile(b.String())
}

// MatchWildcard matches a glob-style pattern against text.
// Returns an error if the pattern cannot be compiled.
func MatchWildcard(pattern, text string) (bool, error) {
	re, err := CompileWildcard(pattern)
	if err != nil {
		return false, err
	}
	return re.MatchString(text), nil
}
