package mapgrid

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Epsilon added to an absolute angle before decomposition so that values
// at a display rounding boundary carry into the next whole minute or
// second instead of truncating down. The literal values are kept for
// output compatibility with existing published grid labels.
const (
	minuteEpsilon = 0.0000083 // half of 0.001'
	secondEpsilon = 0.0000138 // half of 0.1"
)

// ToDegreeString formats lon and lat as decimal degrees with six decimal
// places, hyphen-split after the third decimal and prefixed with a
// hemisphere letter: 121.585674 becomes "E121.585-674".
func ToDegreeString(lon, lat float64) (string, string) {
	return lonHemisphere(lon) + splitDegree(lon), latHemisphere(lat) + splitDegree(lat)
}

// ToDegreeMinuteString formats lon and lat as whole degrees and
// fractional minutes truncated to three decimals: "E121°35.140'".
func ToDegreeMinuteString(lon, lat float64) (string, string) {
	return lonHemisphere(lon) + degreeMinute(lon), latHemisphere(lat) + degreeMinute(lat)
}

// ToDegreeMinuteSecondString formats lon and lat as whole degrees, whole
// minutes and fractional seconds truncated to one decimal:
// "E121°35'08.4\"".
func ToDegreeMinuteSecondString(lon, lat float64) (string, string) {
	return lonHemisphere(lon) + degreeMinuteSecond(lon), latHemisphere(lat) + degreeMinuteSecond(lat)
}

// ToIntPairString formats x and y as integers hyphen-split after the last
// three digits: 123456 becomes "123-456". Values of three digits or fewer
// are left unsplit.
func ToIntPairString(x, y float64) (string, string) {
	return splitInt(x), splitInt(y)
}

// ParseAngle extracts a decimal-degree value from free-form text. If text
// is blank or unparseable it falls back to the hint string, and returns
// ErrInvalidAngle if neither parses.
func ParseAngle(text, fallback string) (float64, error) {
	for _, s := range []string{text, fallback} {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return v, nil
		}
		if v, err := strconv.ParseFloat(filterNumeric(s), 64); err == nil {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidAngle, text)
}

// ParseVector extracts a raw projected coordinate from text, keeping
// digits only so that embedded separators are tolerated: "123-456"
// parses as 123456. Falls back to the hint string, and returns
// ErrInvalidAngle if neither parses.
func ParseVector(text, fallback string) (float64, error) {
	for _, s := range []string{text, fallback} {
		digits := filterDigits(s)
		if digits == "" {
			continue
		}
		if v, err := strconv.ParseFloat(digits, 64); err == nil {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidAngle, text)
}

func lonHemisphere(v float64) string {
	if v < 0 {
		return "W"
	}
	return "E"
}

func latHemisphere(v float64) string {
	if v < 0 {
		return "S"
	}
	return "N"
}

func splitDegree(v float64) string {
	s := strconv.FormatFloat(math.Abs(v), 'f', 6, 64)
	return s[:len(s)-3] + "-" + s[len(s)-3:]
}

func degreeMinute(v float64) string {
	a := math.Abs(v) + minuteEpsilon
	d := int(a)
	m := truncateDecimals((a-float64(d))*60, 3)
	return fmt.Sprintf("%d°%06.3f'", d, m)
}

func degreeMinuteSecond(v float64) string {
	a := math.Abs(v) + secondEpsilon
	d := int(a)
	minutes := (a - float64(d)) * 60
	m := int(minutes)
	s := truncateDecimals((minutes-float64(m))*60, 1)
	return fmt.Sprintf("%d°%02d'%04.1f\"", d, m, s)
}

func splitInt(v float64) string {
	s := strconv.FormatInt(int64(v), 10)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	if len(s) > 3 {
		s = s[:len(s)-3] + "-" + s[len(s)-3:]
	}
	if neg {
		s = "-" + s
	}
	return s
}

// truncateDecimals truncates v toward zero to the given number of decimal
// places.
func truncateDecimals(v float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Trunc(v*p) / p
}

// filterNumeric keeps the characters of s that can appear in a decimal
// number, dropping hemisphere letters, unit marks and split hyphens.
func filterNumeric(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case '0' <= r && r <= '9', r == '.':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func filterDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if '0' <= r && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
