package gtfs

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Validation patterns. Several types are deliberately loose because the
// GTFS spec leaves them loose; the strict ones reject to null.
var (
	rgxColor    = regexp.MustCompile(`^(#?)([0-9a-fA-F]{3}(?:[0-9a-fA-F](?:[0-9a-fA-F]{2}(?:[0-9a-fA-F]{2})?)?)?)$`)
	rgxCurrency = regexp.MustCompile(`(?i)^[A-Z]{3}$`)
	rgxDate     = regexp.MustCompile(`^(\d{4})([-/. ]?)(\d{2})([-/. ]?)(\d{2})$`)
	rgxEmail    = regexp.MustCompile(`(?i)^[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}$`)
	rgxLanguage = regexp.MustCompile(`(?i)^[A-Z0-9]{1,8}(-[A-Z0-9]{1,8})*$`)
	rgxTime     = regexp.MustCompile(`^(-?)(\d{1,2}):(\d{2}):(\d{2})$`)
)

// Coerce converts a raw cell into a typed value according to the
// field's semantic type. The returned messages describe every
// correction or rejection applied on the way; the caller attaches
// table/field/record provenance.
//
// An empty cell is always null with no warnings.
func Coerce(t DataType, raw string) (Value, []string) {
	if raw == "" {
		return Null(), nil
	}

	switch t {
	case TypeColor:
		return coerceColor(raw)
	case TypeCurrency:
		return coerceCurrency(raw)
	case TypeDate:
		return coerceDate(raw)
	case TypeEmail:
		if !rgxEmail.MatchString(raw) {
			return TextValue(raw), []string{raw + " doesn't appear to be a valid email address, but has been added anyway."}
		}
		return TextValue(raw), nil
	case TypeEnum, TypeNonNegativeInteger:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			return Null(), []string{raw + " is not a valid non-negative integer."}
		}
		return IntValue(n), nil
	case TypeInteger:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Null(), []string{raw + " is not a valid integer."}
		}
		return IntValue(n), nil
	case TypeFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Null(), []string{raw + " is not a valid number."}
		}
		return RealValue(f), nil
	case TypeNonNegativeFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Null(), []string{raw + " is not a valid number."}
		}
		if f < 0 {
			return Null(), []string{raw + " is not a valid non-negative number."}
		}
		return RealValue(f), nil
	case TypeLatitude:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Null(), []string{raw + " is not a valid latitude."}
		}
		if f < -90 || f > 90 {
			return Null(), []string{"Latitudes must be between -90 and 90."}
		}
		return RealValue(f), nil
	case TypeLongitude:
		return coerceLongitude(raw)
	case TypeLanguage:
		if !rgxLanguage.MatchString(raw) {
			return TextValue(raw), []string{raw + " doesn't appear to be a valid language code, but has been added anyway."}
		}
		return TextValue(raw), nil
	case TypeTime:
		return coerceTime(raw)
	case TypeTimezone:
		if _, err := time.LoadLocation(raw); err != nil {
			return Null(), []string{raw + " is not a recognized timezone name."}
		}
		return TextValue(raw), nil
	case TypeURL:
		return coerceURL(raw)
	}

	// Phone, Text, ID and anything else: passthrough.
	return TextValue(raw), nil
}

func coerceColor(raw string) (Value, []string) {
	m := rgxColor.FindStringSubmatch(raw)
	if m == nil {
		return Null(), []string{"This is not a valid color. Valid colors are six hex digits, without the preceding #."}
	}

	var warns []string
	if m[1] == "#" {
		warns = append(warns, "The # sign is not part of the GTFS standard and was removed.")
	}

	color := m[2]
	switch len(color) {
	case 3:
		warns = append(warns, "Three-digit colors may not be read by all clients, and are converted to six-digit by this parser.")
		color = strings.Repeat(string(color[0]), 2) + strings.Repeat(string(color[1]), 2) + strings.Repeat(string(color[2]), 2)
	case 4, 8:
		warns = append(warns, "Four- or eight-digit colors (RGB plus alpha) cannot be read by this parser.")
		return Null(), warns
	}

	up := strings.ToUpper(color)
	if up != color {
		warns = append(warns, "Color codes are normally uppercase.")
	}
	return TextValue(up), warns
}

func coerceCurrency(raw string) (Value, []string) {
	if !rgxCurrency.MatchString(raw) {
		return Null(), []string{"Valid currency values are three letters long."}
	}
	up := strings.ToUpper(raw)
	if up != raw {
		return TextValue(up), []string{"Currencies are automatically all-caps'd."}
	}
	return TextValue(up), nil
}

func coerceDate(raw string) (Value, []string) {
	m := rgxDate.FindStringSubmatch(raw)
	if m == nil {
		return Null(), []string{raw + " is not a valid date!"}
	}

	var warns []string
	if m[2] != "" || m[4] != "" {
		warns = append(warns, "Separators are not valid in GTFS dates and have been automatically removed.")
	}

	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[3])
	day, _ := strconv.Atoi(m[5])

	if month > 12 || month == 0 {
		return Null(), append(warns, "Valid months are 1-12.")
	}
	if day > 31 || day == 0 {
		return Null(), append(warns, "Valid days are 1-31.")
	}
	if day == 31 && (month == 4 || month == 6 || month == 9 || month == 11) {
		return Null(), append(warns, fmt.Sprintf("Valid days for month %d are 1-30.", month))
	}
	if month == 2 {
		if day > 29 {
			return Null(), append(warns, "Valid days for month 2 are 1-28 with 29 permitted some years.")
		}
		if day == 29 && !isLeapYear(year) {
			return Null(), append(warns, fmt.Sprintf("Valid days for month 2 in year %d are 1-28.", year))
		}
	}

	return TextValue(m[1] + m[3] + m[5]), warns
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func coerceLongitude(raw string) (Value, []string) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Null(), []string{raw + " is not a valid longitude."}
	}
	if f > 180 || f <= -180 {
		// Unlike latitude, an out-of-range longitude still points at a
		// real meridian, so it is wrapped into (-180, 180] instead of
		// being rejected.
		wrapped := math.Mod(f, 360)
		if wrapped > 180 {
			wrapped -= 360
		} else if wrapped <= -180 {
			wrapped += 360
		}
		return RealValue(wrapped), []string{fmt.Sprintf("Longitude %s was normalized to %g.", raw, wrapped)}
	}
	return RealValue(f), nil
}

func coerceTime(raw string) (Value, []string) {
	m := rgxTime.FindStringSubmatch(raw)
	if m == nil {
		return Null(), []string{raw + " is not a valid time. Valid times are H:MM:SS or HH:MM:SS."}
	}
	// Single-digit hours are zero-padded without a warning; feeds that
	// do this do it on every row and the flood helps nobody. Hours past
	// 23 are legal (service after midnight).
	hour := m[2]
	if len(hour) == 1 {
		hour = "0" + hour
	}
	return TextValue(m[1] + hour + ":" + m[3] + ":" + m[4]), nil
}

func coerceURL(raw string) (Value, []string) {
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() {
		return Null(), []string{raw + " is not a valid absolute URL."}
	}
	switch u.Scheme {
	case "https":
		return TextValue(raw), nil
	case "http":
		return TextValue(raw), []string{"http URLs are insecure; https is preferred."}
	}
	return Null(), []string{"URLs must use the http or https scheme."}
}
