// Package display renders cell values for people: numbers get locale grouping
// and exactly two fraction digits.
package display

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultLocale is used when no locale is configured.
const DefaultLocale = "en-IN"

// Formatter formats values for a single locale. It is safe for concurrent use.
type Formatter struct {
	tag     language.Tag
	printer *message.Printer
}

// NewFormatter creates a Formatter for a BCP 47 locale such as "en-IN".
func NewFormatter(locale string) (*Formatter, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid display locale %q: %w", locale, err)
	}
	return NewFormatterForTag(tag), nil
}

// NewFormatterForTag creates a Formatter for an already parsed tag.
func NewFormatterForTag(tag language.Tag) *Formatter {
	return &Formatter{tag: tag, printer: message.NewPrinter(tag)}
}

// Locale returns the formatter's language tag.
func (f *Formatter) Locale() language.Tag { return f.tag }

// Number formats v with grouping and two fraction digits.
func (f *Formatter) Number(v float64) string {
	return f.printer.Sprint(number.Decimal(v, number.Scale(2)))
}

// Text returns s unchanged; it exists so callers can treat every column type
// through the formatter.
func (f *Formatter) Text(s string) string { return s }

// Value formats an arbitrary cell value: numbers via Number, strings as-is,
// nil as an empty string.
func (f *Formatter) Value(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return f.Number(val)
	case float32:
		return f.Number(float64(val))
	case int:
		return f.Number(float64(val))
	case int64:
		return f.Number(float64(val))
	}
	return fmt.Sprint(v)
}
