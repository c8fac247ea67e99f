package gtfs

import (
	"strconv"
)

// DataType identifies the semantic type of a GTFS field. The semantic
// type decides how a raw cell is coerced and validated, independent of
// how the value is stored.
type DataType int

const (
	TypeColor DataType = iota
	TypeCurrency
	TypeDate
	TypeEmail
	TypeEnum
	TypeFloat
	TypeID
	TypeInteger
	TypeLanguage
	TypeLatitude
	TypeLongitude
	TypeNonNegativeFloat
	TypeNonNegativeInteger
	TypePhone
	TypeText
	TypeTime
	TypeTimezone
	TypeURL
)

// Kind is the storage class of a coerced value.
type Kind int

const (
	KindNull Kind = iota
	KindText
	KindInt
	KindReal
)

// Value is a typed cell value. Exactly one of Text, Int or Real is
// meaningful, selected by Kind. The zero Value is null.
type Value struct {
	Kind Kind
	Text string
	Int  int64
	Real float64
}

// Null returns the null Value.
func Null() Value { return Value{} }

// TextValue wraps a string.
func TextValue(s string) Value { return Value{Kind: KindText, Text: s} }

// IntValue wraps an integer.
func IntValue(i int64) Value { return Value{Kind: KindInt, Int: i} }

// RealValue wraps a float.
func RealValue(f float64) Value { return Value{Kind: KindReal, Real: f} }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// Driver returns the value in the shape database/sql expects as a
// statement parameter: nil, string, int64 or float64.
func (v Value) Driver() any {
	switch v.Kind {
	case KindText:
		return v.Text
	case KindInt:
		return v.Int
	case KindReal:
		return v.Real
	}
	return nil
}

// String renders the value for record identifiers and log output.
// Null renders as the empty string.
func (v Value) String() string {
	switch v.Kind {
	case KindText:
		return v.Text
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindReal:
		return strconv.FormatFloat(v.Real, 'f', -1, 64)
	}
	return ""
}

// Row is one record's coerced cells keyed by column name. Business
// rules may mutate a Row before it is inserted.
type Row map[string]Value
