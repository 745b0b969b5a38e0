// Package envfile reads and writes the `export NAME=value` lines found in
// POSIX shell startup files.
package envfile

import (
	"bufio"
	"fmt"
	"regexp"
	"strings"

	"github.com/conn-castle/toolbelt/internal/messages"
)

var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Export is one parsed export assignment.
type Export struct {
	// Line is the zero-based line index within the parsed content.
	Line  int
	Name  string
	Value string
}

// Exports returns every export assignment in content, in file order.
// Lines that are not simple assignments (functions, conditionals, malformed
// quoting) are ignored: rc files are shell programs, not dotenv files.
func Exports(content string) []Export {
	var out []Export
	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		name, value, ok, err := ParseLine(scanner.Text())
		if err == nil && ok {
			out = append(out, Export{Line: lineNo, Name: name, Value: value})
		}
		lineNo++
	}
	return out
}

// Exported reports whether content exports name.
func Exported(content string, name string) bool {
	for _, e := range Exports(content) {
		if e.Name == name {
			return true
		}
	}
	return false
}

// ParseLine parses a single `export NAME=value` line.
// Returns ok=false for blank lines, comments and lines without the export keyword.
func ParseLine(line string) (string, string, bool, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return "", "", false, nil
	}
	if !strings.HasPrefix(trimmed, "export ") && !strings.HasPrefix(trimmed, "export\t") {
		return "", "", false, nil
	}
	trimmed = strings.TrimSpace(trimmed[len("export"):])
	idx := strings.Index(trimmed, "=")
	if idx <= 0 {
		return "", "", false, fmt.Errorf(messages.EnvfileExpectedKeyValue)
	}
	key := trimmed[:idx]
	if !namePattern.MatchString(key) {
		return "", "", false, fmt.Errorf(messages.EnvfileInvalidNameFmt, key)
	}
	value := trimmed[idx+1:]
	switch {
	case strings.HasPrefix(value, `"`):
		parsed, err := parseDoubleQuotedValue(value)
		if err != nil {
			return "", "", false, err
		}
		value = parsed
	case strings.HasPrefix(value, `'`):
		parsed, err := parseSingleQuotedValue(value)
		if err != nil {
			return "", "", false, err
		}
		value = parsed
	default:
		if end := strings.IndexAny(value, " \t;"); end >= 0 {
			value = value[:end]
		}
	}
	return key, value, true, nil
}

// FormatExport renders an export line that a POSIX shell evaluates back to value.
func FormatExport(name string, value string) string {
	return fmt.Sprintf("export %s=%s", name, quote(value))
}

// FormatPathExport renders a line prepending entry to PATH.
func FormatPathExport(entry string) string {
	return fmt.Sprintf(`export PATH="%s:$PATH"`, escapeDouble(entry))
}

// parseDoubleQuotedValue parses a double-quoted value and validates trailing content.
func parseDoubleQuotedValue(value string) (string, error) {
	closing := findClosingDoubleQuote(value)
	if closing < 0 {
		return "", fmt.Errorf(messages.EnvfileUnterminatedQuotedValue)
	}
	if err := validateQuotedValueSuffix(value[closing+1:]); err != nil {
		return "", err
	}
	return unescapeDoubleQuotedValue(value[1:closing]), nil
}

// parseSingleQuotedValue parses a single-quoted value and validates trailing content.
func parseSingleQuotedValue(value string) (string, error) {
	if len(value) < 2 {
		return "", fmt.Errorf(messages.EnvfileUnterminatedQuotedValue)
	}
	closingOffset := strings.IndexByte(value[1:], '\'')
	if closingOffset < 0 {
		return "", fmt.Errorf(messages.EnvfileUnterminatedQuotedValue)
	}
	closing := 1 + closingOffset
	if err := validateQuotedValueSuffix(value[closing+1:]); err != nil {
		return "", err
	}
	return value[1:closing], nil
}

// findClosingDoubleQuote returns the index of the first unescaped closing quote in value.
func findClosingDoubleQuote(value string) int {
	escaped := false
	for i := 1; i < len(value); i++ {
		if escaped {
			escaped = false
			continue
		}
		switch value[i] {
		case '\\':
			escaped = true
		case '"':
			return i
		}
	}
	return -1
}

// validateQuotedValueSuffix accepts whitespace, a comment or a command separator after the closing quote.
func validateQuotedValueSuffix(suffix string) error {
	trimmed := strings.TrimSpace(suffix)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, ";") {
		return nil
	}
	return fmt.Errorf(messages.EnvfileInvalidQuotedSuffix)
}

// unescapeDoubleQuotedValue decodes the backslash escapes a shell honors inside double quotes.
func unescapeDoubleQuotedValue(escaped string) string {
	var b strings.Builder
	b.Grow(len(escaped))
	for i := 0; i < len(escaped); i++ {
		if escaped[i] == '\\' && i+1 < len(escaped) {
			switch escaped[i+1] {
			case '\\', '"', '$', '`':
				b.WriteByte(escaped[i+1])
				i++
				continue
			}
		}
		b.WriteByte(escaped[i])
	}
	return b.String()
}

// quote wraps val in single quotes, or in escaped double quotes when val contains a single quote.
func quote(val string) string {
	if !strings.Contains(val, "'") {
		return "'" + val + "'"
	}
	return `"` + escapeDouble(val) + `"`
}

func escapeDouble(val string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, `$`, `\$`, "`", "\\`")
	return r.Replace(val)
}
