package printing

import (
	"strings"

	"github.com/nsgarcia11/bathroom-estimator/internal/domain/project"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter renders numbers and labels for a locale
type Formatter struct {
	printer        *message.Printer
	caser          cases.Caser
	currencySymbol string
}

// NewFormatter creates a formatter for a BCP 47 locale such as "en-US".
// Unknown locales fall back to American English.
func NewFormatter(locale, currencySymbol string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil || locale == "" {
		tag = language.AmericanEnglish
	}
	if currencySymbol == "" {
		currencySymbol = "$"
	}
	return &Formatter{
		printer:        message.NewPrinter(tag),
		caser:          cases.Title(tag),
		currencySymbol: currencySymbol,
	}
}

// Money formats an amount with grouping and two decimals, e.g. $1,234.50
func (f *Formatter) Money(d decimal.Decimal) string {
	rounded := d.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}
	return sign + f.currencySymbol + f.printer.Sprint(number.Decimal(rounded.InexactFloat64(), number.Scale(2)))
}

// Quantity formats a quantity with up to two decimals
func (f *Formatter) Quantity(d decimal.Decimal) string {
	return f.printer.Sprint(number.Decimal(d.Round(2).InexactFloat64(), number.MaxFractionDigits(2)))
}

// Percent formats a percentage value given in points, e.g. 12.5 -> 12.5%
func (f *Formatter) Percent(d decimal.Decimal) string {
	return f.Quantity(d) + "%"
}

// Title turns a snake_case key into a title, e.g. shower_walls -> Shower Walls
func (f *Formatter) Title(s string) string {
	return f.caser.String(strings.ReplaceAll(s, "_", " "))
}

// CategoryTitle is the display name of a wizard category
func (f *Formatter) CategoryTitle(c project.Category) string {
	return f.Title(string(c))
}
