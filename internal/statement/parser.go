// Package statement turns raw delimited bank-statement text of unknown
// format into an ordered sequence of transaction drafts.
package statement

import (
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"github.com/granadev/grana/internal/model"
	"github.com/microcosm-cc/bluemonday"
	"github.com/shopspring/decimal"
)

// DefaultMaxStatementBytes bounds statement input size.
const DefaultMaxStatementBytes = 100 * 1024

// fieldsPerRow is the expected statement shape: date, description, amount.
const fieldsPerRow = 3

// Draft is a parsed-but-not-yet-persisted transaction candidate.
// Amount is always a non-negative magnitude; Kind carries the sign of
// the source amount.
type Draft struct {
	Date        time.Time
	Description string
	Kind        model.TransactionKind
	Amount      decimal.Decimal
}

// Parser parses delimited statement text. Parsing is all-or-nothing:
// any malformed row fails the whole statement with a line-addressed
// error and no drafts.
type Parser struct {
	sanitizer *bluemonday.Policy
	maxBytes  int
}

// NewParser creates a statement parser with the default size limit.
func NewParser() *Parser {
	return NewParserWithLimit(DefaultMaxStatementBytes)
}

// NewParserWithLimit creates a statement parser with a custom input
// size limit in bytes.
func NewParserWithLimit(maxBytes int) *Parser {
	return &Parser{
		maxBytes:  maxBytes,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Parse converts raw statement text into drafts, one per non-blank
// line, in input order. The delimiter is auto-detected from the first
// lines. The returned error is a *ParseError for row-level failures.
func (p *Parser) Parse(text string) ([]Draft, error) {
	if len(text) > p.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrStatementTooLarge, len(text), p.maxBytes)
	}

	type row struct {
		text string
		line int
	}
	var rows []row
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, row{text: line, line: i + 1})
	}
	if len(rows) == 0 {
		return nil, ErrEmptyStatement
	}

	samples := make([]string, 0, sampleSize)
	for i := 0; i < len(rows) && i < sampleSize; i++ {
		samples = append(samples, rows[i].text)
	}
	delim := DetectDelimiter(samples)
	slog.Debug("detected statement delimiter", "delimiter", string(delim), "rows", len(rows))

	drafts := make([]Draft, 0, len(rows))
	for _, r := range rows {
		fields := SplitFields(r.text, delim)
		// A comma delimiter can cut through a comma-decimal amount
		// ("1.200,00" -> "1.200" + "00"); fold the tail back into the
		// amount token before giving up on the row.
		if delim == ',' && len(fields) > fieldsPerRow {
			fields = append(fields[:fieldsPerRow-1], strings.Join(fields[fieldsPerRow-1:], ","))
		}
		if len(fields) != fieldsPerRow {
			return nil, &ParseError{
				Line: r.line,
				Err:  fmt.Errorf("%w, got %d", ErrFieldCount, len(fields)),
			}
		}

		date, err := ParseDate(fields[0])
		if err != nil {
			return nil, &ParseError{Line: r.line, Token: fields[0], Err: ErrInvalidDate}
		}

		amount, kind, err := ParseAmount(fields[2])
		if err != nil {
			return nil, &ParseError{Line: r.line, Token: fields[2], Err: ErrInvalidAmount}
		}

		drafts = append(drafts, Draft{
			Date:        date,
			Description: p.sanitizeDescription(fields[1]),
			Amount:      amount,
			Kind:        kind,
		})
	}

	return drafts, nil
}

// sanitizeDescription strips script-injection payloads from free text.
// bluemonday escapes entities while stripping tags, so the surviving
// text is unescaped back to plain characters afterwards.
func (p *Parser) sanitizeDescription(s string) string {
	s = p.sanitizer.Sanitize(s)
	s = html.UnescapeString(s)
	return strings.TrimSpace(s)
}
