package mlarg

import (
	"strings"
	"unicode"
)

// splitWords breaks a Go identifier into words at underscores, dashes,
// lower-to-upper transitions and the end of an acronym:
// "DumpConfig" and "Dump_config" give [Dump Config] and [Dump config],
// "HTTPServe" gives [HTTP Serve].
func splitWords(ident string) []string {
	var (
		words []string
		cur   []rune
	)
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}

	rs := []rune(ident)
	for i, r := range rs {
		if r == '_' || r == '-' {
			flush()
			continue
		}
		if unicode.IsUpper(r) && len(cur) > 0 {
			prev := rs[i-1]
			nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

// CommandName is the command-line name of a method or parser field.
func CommandName(goName string, caseSensitive bool) string {
	name := strings.Join(splitWords(goName), "-")
	if !caseSensitive {
		name = strings.ToLower(name)
	}
	return name
}

// ParamName is the snake_case name of an argument struct field.
func ParamName(field string) string {
	return strings.ToLower(strings.Join(splitWords(field), "_"))
}

// LongName is the option name of a parameter, without the leading dashes.
func LongName(param string) string {
	return strings.ReplaceAll(param, "_", "-")
}

// shortFor returns the short letter a destination would claim, or 0 when
// its first character is not an ASCII letter.
func shortFor(dest string) byte {
	if dest == "" {
		return 0
	}
	c := dest[0]
	if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
		return c
	}
	return 0
}

// shortSet tracks the short letters taken within one command.
type shortSet map[byte]string

// claim gives the dest's first letter to it when still free.
func (s shortSet) claim(dest string) string {
	c := shortFor(dest)
	if c == 0 {
		return ""
	}
	if _, taken := s[c]; taken {
		return ""
	}
	s[c] = dest
	return string(c)
}

// collisionCandidates lists alternative spellings offered when name, derived
// from goName, is already taken.
func collisionCandidates(name, goName string, caseSensitive bool) []string {
	snake := strings.Join(splitWords(goName), "_")
	raw := goName
	if !caseSensitive {
		snake = strings.ToLower(snake)
		raw = strings.ToLower(raw)
	}
	return []string{raw, snake, name + "2", name + "-cmd"}
}
