package proposal

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const displayDateLayout = "02/01/2006"

var amountPrinter = message.NewPrinter(language.English)

// FormatAmount renders a currency amount with thousands separators and two
// decimals, e.g. 1234.5 -> "1,234.56" style.
func FormatAmount(v float64) string {
	return amountPrinter.Sprintf("%.2f", v)
}

// FormatPercent renders a percentage without trailing zeros: 0 -> "0%",
// 12.5 -> "12.5%".
func FormatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

// FormatValidityDate turns the optional valid-until field into its display
// form. Empty input falls back to "30 days". Input already containing "/" is
// assumed pre-formatted and returned unchanged. Otherwise the date portion
// before any time component is parsed as ISO "YYYY-MM-DD" and reformatted as
// "DD/MM/YYYY"; anything unparseable falls back to "30 days". Never fails.
func FormatValidityDate(validUntil string) string {
	if validUntil == "" {
		return "30 days"
	}
	if strings.Contains(validUntil, "/") {
		return validUntil
	}
	datePart := validUntil
	if i := strings.Index(datePart, "T"); i >= 0 {
		datePart = datePart[:i]
	}
	t, err := time.Parse("2006-01-02", datePart)
	if err != nil {
		return "30 days"
	}
	return t.Format(displayDateLayout)
}

// LicenceDescription phrases the licensed quantity: "0" when the licence
// flag is off, counts of standalone seats and server keys joined with
// " and " when present, otherwise the pluralized user count.
func LicenceDescription(p *Product) string {
	if p == nil || !p.Licence {
		return "0"
	}

	var parts []string
	if p.StandaloneCount > 0 {
		parts = append(parts, fmt.Sprintf("%d standalone", p.StandaloneCount))
	}
	if p.ServerKeyCount > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", p.ServerKeyCount, pluralize("server key", p.ServerKeyCount)))
	}
	if len(parts) > 0 {
		return strings.Join(parts, " and ")
	}
	return fmt.Sprintf("%d %s", p.UserCount, pluralize("user", p.UserCount))
}

func pluralize(noun string, n int) string {
	if n == 1 {
		return noun
	}
	return noun + "s"
}
