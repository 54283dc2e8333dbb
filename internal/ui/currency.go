package ui

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatThousands groups an unsigned digit string into thousands:
// "12000" becomes "12,000". Non-digit input is returned unchanged.
func FormatThousands(digits string) string {
	whole, frac, hasFrac := strings.Cut(digits, ".")
	for _, r := range whole {
		if r < '0' || r > '9' {
			return digits
		}
	}
	if len(whole) > 3 {
		var sb strings.Builder
		lead := len(whole) % 3
		if lead > 0 {
			sb.WriteString(whole[:lead])
		}
		for i := lead; i < len(whole); i += 3 {
			if sb.Len() > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(whole[i : i+3])
		}
		whole = sb.String()
	}
	if hasFrac {
		return whole + "." + frac
	}
	return whole
}

// FormatAmount renders a numeric amount with grouped thousands, trimming a
// zero fraction: 12000 -> "12,000", 12000.5 -> "12,000.5".
func FormatAmount(v float64) string {
	text := strconv.FormatFloat(v, 'f', -1, 64)
	if strings.HasPrefix(text, "-") {
		return "-" + FormatThousands(text[1:])
	}
	return FormatThousands(text)
}

// StripSeparators removes grouping commas and surrounding space, leaving
// the raw digits the field stores internally.
func StripSeparators(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), ",", "")
}

// ParseAmount coerces a currency field's display value back to a number:
// "12,000" -> 12000.
func ParseAmount(s string) (float64, error) {
	raw := StripSeparators(s)
	if raw == "" {
		return 0, fmt.Errorf("empty amount")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return v, nil
}
