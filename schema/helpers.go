package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// BandLabels returns one label per annual band, e.g. "Blended Land Cover Map 2001".
func BandLabels(prefix string) []string {
	labels := make([]string, NumYears)
	for i := range labels {
		labels[i] = fmt.Sprintf("%s %d", prefix, Year(i))
	}
	return labels
}

// FormatVector renders a vector as space-separated class codes.
func FormatVector(v AnnualVector) string {
	parts := make([]string, len(v))
	for i, c := range v {
		parts[i] = strconv.Itoa(int(c))
	}
	return strings.Join(parts, " ")
}

// FormatDOY renders a yyyyddd date as "yyyy-ddd".
func FormatDOY(yyyyddd int) string {
	return fmt.Sprintf("%04d-%03d", yyyyddd/1000, yyyyddd%1000)
}

// ParseVector reads NumYears class codes separated by spaces or commas.
func ParseVector(s string) ([NumYears]uint8, error) {
	var v [NumYears]uint8
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	if len(fields) != NumYears {
		return v, fmt.Errorf("expected %d class codes, got %d", NumYears, len(fields))
	}
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 || n > 255 {
			return v, fmt.Errorf("invalid class code %q at position %d", f, i)
		}
		v[i] = uint8(n)
	}
	return v, nil
}
