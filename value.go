// Package firequery translates wire-format query descriptions into
// executable Cloud Firestore queries, and native document snapshots back
// into wire-format values.
package firequery

import (
	"encoding/json"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// Kind discriminates the variants of a wire Value.
type Kind string

const (
	KindNull      Kind = "null"
	KindBool      Kind = "bool"
	KindInt       Kind = "int"
	KindDouble    Kind = "double"
	KindString    Kind = "string"
	KindBytes     Kind = "bytes"
	KindTimestamp Kind = "timestamp"
	KindGeoPoint  Kind = "geopoint"
	KindReference Kind = "reference"
	KindArray     Kind = "array"
	KindMap       Kind = "map"
)

// Value is the wire-format representation of a Firestore field value.
// Exactly the fields relevant to Kind are meaningful; references carry a
// slash-separated document path rather than a live handle, so a Value can
// never be cyclic.
type Value struct {
	Kind   Kind
	Bool   bool
	Int    int64
	Double float64
	Str    string // string payload, or document path for KindReference
	Bytes  []byte
	Time   time.Time
	Lat    float64
	Lng    float64
	Values []Value          // KindArray
	Fields map[string]Value // KindMap
}

func Null() Value                  { return Value{Kind: KindNull} }
func Bool(b bool) Value            { return Value{Kind: KindBool, Bool: b} }
func Int(i int64) Value            { return Value{Kind: KindInt, Int: i} }
func Double(f float64) Value       { return Value{Kind: KindDouble, Double: f} }
func String(s string) Value        { return Value{Kind: KindString, Str: s} }
func Bytes(b []byte) Value         { return Value{Kind: KindBytes, Bytes: b} }
func Timestamp(t time.Time) Value  { return Value{Kind: KindTimestamp, Time: t} }
func Reference(path string) Value  { return Value{Kind: KindReference, Str: path} }
func Array(vs ...Value) Value      { return Value{Kind: KindArray, Values: vs} }
func Map(m map[string]Value) Value { return Value{Kind: KindMap, Fields: m} }

func GeoPoint(lat, lng float64) Value {
	return Value{Kind: KindGeoPoint, Lat: lat, Lng: lng}
}

// wireValue is the JSON shape of Value: a kind discriminator plus the
// payload field matching that kind.
type wireValue struct {
	Kind      Kind             `json:"kind"`
	Bool      *bool            `json:"bool,omitempty"`
	Int       *int64           `json:"int,omitempty"`
	Double    *float64         `json:"double,omitempty"`
	String    *string          `json:"string,omitempty"`
	Bytes     []byte           `json:"bytes,omitempty"`
	Timestamp *time.Time       `json:"timestamp,omitempty"`
	Latitude  *float64         `json:"latitude,omitempty"`
	Longitude *float64         `json:"longitude,omitempty"`
	Path      *string          `json:"path,omitempty"`
	Values    []Value          `json:"values,omitempty"`
	Fields    map[string]Value `json:"fields,omitempty"`
}

func (v Value) MarshalJSON() ([]byte, error) {
	w := wireValue{Kind: v.Kind}
	switch v.Kind {
	case KindNull:
	case KindBool:
		w.Bool = &v.Bool
	case KindInt:
		w.Int = &v.Int
	case KindDouble:
		w.Double = &v.Double
	case KindString:
		w.String = &v.Str
	case KindBytes:
		w.Bytes = v.Bytes
	case KindTimestamp:
		w.Timestamp = &v.Time
	case KindGeoPoint:
		w.Latitude = &v.Lat
		w.Longitude = &v.Lng
	case KindReference:
		w.Path = &v.Str
	case KindArray:
		w.Values = v.Values
	case KindMap:
		w.Fields = v.Fields
	default:
		return nil, goerr.New("cannot marshal unknown value kind",
			goerr.V("kind", string(v.Kind)),
			goerr.T(TagUnsupportedValueKind))
	}
	return json.Marshal(w)
}

// UnmarshalJSON accepts any kind tag, including ones this version does
// not know. Unknown kinds are preserved and rejected later by
// Codec.Decode, so that schema skew stays distinguishable from a
// malformed payload (which fails here).
func (v *Value) UnmarshalJSON(data []byte) error {
	var w wireValue
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	out := Value{Kind: w.Kind}
	switch w.Kind {
	case KindNull:
	case KindBool:
		if w.Bool == nil {
			return missingPayload(w.Kind, "bool")
		}
		out.Bool = *w.Bool
	case KindInt:
		if w.Int == nil {
			return missingPayload(w.Kind, "int")
		}
		out.Int = *w.Int
	case KindDouble:
		if w.Double == nil {
			return missingPayload(w.Kind, "double")
		}
		out.Double = *w.Double
	case KindString:
		if w.String == nil {
			return missingPayload(w.Kind, "string")
		}
		out.Str = *w.String
	case KindBytes:
		out.Bytes = w.Bytes
	case KindTimestamp:
		if w.Timestamp == nil {
			return missingPayload(w.Kind, "timestamp")
		}
		out.Time = *w.Timestamp
	case KindGeoPoint:
		if w.Latitude == nil || w.Longitude == nil {
			return missingPayload(w.Kind, "latitude/longitude")
		}
		out.Lat = *w.Latitude
		out.Lng = *w.Longitude
	case KindReference:
		if w.Path == nil {
			return missingPayload(w.Kind, "path")
		}
		out.Str = *w.Path
	case KindArray:
		out.Values = w.Values
	case KindMap:
		out.Fields = w.Fields
	}
	*v = out
	return nil
}

func missingPayload(kind Kind, field string) error {
	return goerr.New("malformed value: missing payload",
		goerr.V("kind", string(kind)),
		goerr.V("field", field))
}
