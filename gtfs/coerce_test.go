package gtfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerceColor(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      Value
		wantWarns int
	}{
		{"six digit passthrough", "FF0000", TextValue("FF0000"), 0},
		{"lowercase uppercased", "ff0000", TextValue("FF0000"), 1},
		{"hash stripped", "#00FF00", TextValue("00FF00"), 1},
		{"three digit expanded", "F0A", TextValue("FF00AA"), 1},
		{"hash and three digit", "#f0a", TextValue("FF00AA"), 3},
		{"four digit rejected", "FF00", Null(), 1},
		{"eight digit rejected", "FF00AA00", Null(), 1},
		{"garbage rejected", "red", Null(), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, warns := Coerce(TypeColor, tt.input)
			assert.Equal(t, tt.want, got)
			assert.Len(t, warns, tt.wantWarns)
		})
	}
}

func TestCoerceDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Value
	}{
		{"canonical", "20240115", TextValue("20240115")},
		{"dashes stripped", "2024-01-15", TextValue("20240115")},
		{"slashes stripped", "2024/01/15", TextValue("20240115")},
		{"month 13 rejected", "20241301", Null()},
		{"day zero rejected", "20240100", Null()},
		{"day 31 in april rejected", "20240431", Null()},
		{"feb 29 leap year", "20240229", TextValue("20240229")},
		{"feb 29 non leap rejected", "20230229", Null()},
		{"feb 29 century non leap rejected", "19000229", Null()},
		{"feb 29 quadricentennial", "20000229", TextValue("20000229")},
		{"feb 30 rejected", "20240230", Null()},
		{"not a date", "January 15", Null()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := Coerce(TypeDate, tt.input)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCoerceLatitudeRejectsOutOfRange(t *testing.T) {
	got, warns := Coerce(TypeLatitude, "90.5")
	assert.True(t, got.IsNull())
	assert.Len(t, warns, 1)

	got, warns = Coerce(TypeLatitude, "-90.0")
	assert.Equal(t, RealValue(-90), got)
	assert.Empty(t, warns)
}

func TestCoerceLongitudeWraps(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      float64
		wantWarns int
	}{
		{"in range untouched", "-74.5", -74.5, 0},
		{"boundary 180 kept", "180", 180, 0},
		{"minus 180 wraps to 180", "-180", 180, 1},
		{"190 wraps west", "190", -170, 1},
		{"550 wraps once more", "550", -170, 1},
		{"minus 190 wraps east", "-190", 170, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, warns := Coerce(TypeLongitude, tt.input)
			assert.Equal(t, RealValue(tt.want), got)
			assert.Len(t, warns, tt.wantWarns)
		})
	}
}

func TestCoerceCurrency(t *testing.T) {
	got, warns := Coerce(TypeCurrency, "USD")
	assert.Equal(t, TextValue("USD"), got)
	assert.Empty(t, warns)

	got, warns = Coerce(TypeCurrency, "usd")
	assert.Equal(t, TextValue("USD"), got)
	assert.Len(t, warns, 1)

	got, _ = Coerce(TypeCurrency, "DOLLARS")
	assert.True(t, got.IsNull())
}

func TestCoerceTime(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Value
	}{
		{"canonical", "08:15:30", TextValue("08:15:30")},
		{"single digit hour padded", "8:15:30", TextValue("08:15:30")},
		{"after midnight kept", "25:01:00", TextValue("25:01:00")},
		{"negative preserved", "-1:30:00", TextValue("-01:30:00")},
		{"missing seconds rejected", "08:15", Null()},
		{"garbage rejected", "morning", Null()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := Coerce(TypeTime, tt.input)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCoerceURL(t *testing.T) {
	got, warns := Coerce(TypeURL, "https://example.com")
	assert.Equal(t, TextValue("https://example.com"), got)
	assert.Empty(t, warns)

	got, warns = Coerce(TypeURL, "http://example.com")
	assert.Equal(t, TextValue("http://example.com"), got)
	assert.Len(t, warns, 1)

	got, _ = Coerce(TypeURL, "ftp://example.com")
	assert.True(t, got.IsNull())

	got, _ = Coerce(TypeURL, "example.com")
	assert.True(t, got.IsNull())
}

func TestCoerceLenientTypesKeepValue(t *testing.T) {
	// Email and language warn on odd input but never drop it.
	got, warns := Coerce(TypeEmail, "not-an-email")
	assert.Equal(t, TextValue("not-an-email"), got)
	assert.Len(t, warns, 1)

	got, warns = Coerce(TypeEmail, "rider@example.com")
	assert.Equal(t, TextValue("rider@example.com"), got)
	assert.Empty(t, warns)

	got, warns = Coerce(TypeLanguage, "en-US")
	assert.Equal(t, TextValue("en-US"), got)
	assert.Empty(t, warns)

	got, warns = Coerce(TypeLanguage, "english language!!")
	assert.Equal(t, TextValue("english language!!"), got)
	assert.Len(t, warns, 1)
}

func TestCoerceNumericTypes(t *testing.T) {
	got, _ := Coerce(TypeEnum, "0")
	assert.Equal(t, IntValue(0), got)

	got, warns := Coerce(TypeEnum, "-1")
	assert.True(t, got.IsNull())
	assert.Len(t, warns, 1)

	got, _ = Coerce(TypeInteger, "-5")
	assert.Equal(t, IntValue(-5), got)

	got, _ = Coerce(TypeNonNegativeFloat, "-0.5")
	assert.True(t, got.IsNull())

	got, _ = Coerce(TypeNonNegativeFloat, "2.5")
	assert.Equal(t, RealValue(2.5), got)
}

func TestCoerceTimezone(t *testing.T) {
	got, warns := Coerce(TypeTimezone, "America/New_York")
	assert.Equal(t, TextValue("America/New_York"), got)
	assert.Empty(t, warns)

	got, warns = Coerce(TypeTimezone, "Mars/Olympus_Mons")
	assert.True(t, got.IsNull())
	assert.Len(t, warns, 1)
}

func TestCoerceEmptyCellIsSilentNull(t *testing.T) {
	for _, dt := range []DataType{TypeColor, TypeDate, TypeEnum, TypeLatitude, TypeTime, TypeURL, TypeText} {
		got, warns := Coerce(dt, "")
		assert.True(t, got.IsNull())
		assert.Empty(t, warns)
	}
}
