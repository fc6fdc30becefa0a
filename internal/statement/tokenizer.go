package statement

import "strings"

// SplitFields splits a single line on delim, honoring quoted segments.
// A segment opened by a double or single quote runs until the matching
// closing quote;
// delimiters inside the run are literal, and a doubled quote character
// inside the run is an escaped quote. Fields are trimmed after
// unquoting.
func SplitFields(line string, delim rune) []string {
	var fields []string
	var field strings.Builder

	runes := []rune(line)
	inQuote := false
	var quote rune

	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case inQuote && c == quote:
			if i+1 < len(runes) && runes[i+1] == quote {
				// escaped quote
				field.WriteRune(quote)
				i++
				continue
			}
			inQuote = false
		case inQuote:
			field.WriteRune(c)
		case c == '"' || c == '\'':
			inQuote = true
			quote = c
		case c == delim:
			fields = append(fields, strings.TrimSpace(field.String()))
			field.Reset()
		default:
			field.WriteRune(c)
		}
	}
	fields = append(fields, strings.TrimSpace(field.String()))

	return fields
}
