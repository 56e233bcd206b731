package firequery

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genproto/googleapis/type/latlng"
)

// ReferenceBuilder resolves a slash-separated document path into a native
// document reference. *Connection implements it; tests may substitute a
// bare *firestore.Client wrapper.
type ReferenceBuilder interface {
	Doc(path string) *firestore.DocumentRef
}

// ServerTimestamp is the native sentinel for a server-computed timestamp
// that has not been confirmed yet. The bundled snapshot adapter never
// produces one (the server client has no local cache); cache-capable
// adapters place it in the data map for fields with pending server
// timestamps.
type ServerTimestamp struct {
	Previous any       // last locally known value, nil if none
	Estimate time.Time // local estimate of the value the server will write
}

// TimestampBehavior selects how an unresolved ServerTimestamp is rendered
// when encoding a snapshot.
type TimestampBehavior string

const (
	TimestampNone     TimestampBehavior = "none"
	TimestampEstimate TimestampBehavior = "estimate"
	TimestampPrevious TimestampBehavior = "previous"
)

// ParseTimestampBehavior maps a wire string onto a TimestampBehavior. The
// empty string means TimestampNone; anything else unknown is rejected.
func ParseTimestampBehavior(s string) (TimestampBehavior, error) {
	switch TimestampBehavior(s) {
	case "":
		return TimestampNone, nil
	case TimestampNone, TimestampEstimate, TimestampPrevious:
		return TimestampBehavior(s), nil
	default:
		return "", goerr.New("unknown server timestamp behavior",
			goerr.V("behavior", s),
			goerr.T(TagUnsupportedValueKind))
	}
}

// Codec converts wire Values to native Firestore values and back. It is
// stateless apart from the injected reference builder and safe for
// concurrent use.
type Codec struct {
	refs ReferenceBuilder
}

func NewCodec(refs ReferenceBuilder) *Codec {
	return &Codec{refs: refs}
}

// Decode converts a wire Value into the native representation the
// Firestore client accepts as a query operand or cursor value.
func (c *Codec) Decode(v Value) (any, error) {
	switch v.Kind {
	case KindNull:
		return nil, nil
	case KindBool:
		return v.Bool, nil
	case KindInt:
		return v.Int, nil
	case KindDouble:
		return v.Double, nil
	case KindString:
		return v.Str, nil
	case KindBytes:
		return v.Bytes, nil
	case KindTimestamp:
		return v.Time, nil
	case KindGeoPoint:
		return &latlng.LatLng{Latitude: v.Lat, Longitude: v.Lng}, nil
	case KindReference:
		if c.refs == nil {
			return nil, goerr.New("no reference builder configured for document reference value",
				goerr.V("path", v.Str))
		}
		ref := c.refs.Doc(v.Str)
		if ref == nil {
			return nil, goerr.New("invalid document reference path",
				goerr.V("path", v.Str),
				goerr.T(TagInvalidFieldPath))
		}
		return ref, nil
	case KindArray:
		out := make([]any, len(v.Values))
		for i, elem := range v.Values {
			dv, err := c.Decode(elem)
			if err != nil {
				return nil, err
			}
			out[i] = dv
		}
		return out, nil
	case KindMap:
		out := make(map[string]any, len(v.Fields))
		for k, elem := range v.Fields {
			dv, err := c.Decode(elem)
			if err != nil {
				return nil, err
			}
			out[k] = dv
		}
		return out, nil
	default:
		return nil, goerr.New("unknown value kind",
			goerr.V("kind", string(v.Kind)),
			goerr.T(TagUnsupportedValueKind))
	}
}

// Encode converts a native Firestore value into its wire Value. Maps and
// slices recurse; unresolved server timestamps are rendered according to
// behavior at any depth.
func (c *Codec) Encode(v any, behavior TimestampBehavior) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(x), nil
	case int:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case float32:
		return Double(float64(x)), nil
	case float64:
		return Double(x), nil
	case string:
		return String(x), nil
	case []byte:
		return Bytes(x), nil
	case time.Time:
		return Timestamp(x), nil
	case *latlng.LatLng:
		return GeoPoint(x.GetLatitude(), x.GetLongitude()), nil
	case latlng.LatLng:
		return GeoPoint(x.Latitude, x.Longitude), nil
	case *firestore.DocumentRef:
		return Reference(relativeRefPath(x)), nil
	case ServerTimestamp:
		return c.encodeServerTimestamp(x, behavior)
	case *ServerTimestamp:
		return c.encodeServerTimestamp(*x, behavior)
	case []any:
		vs := make([]Value, len(x))
		for i, elem := range x {
			ev, err := c.Encode(elem, behavior)
			if err != nil {
				return Value{}, err
			}
			vs[i] = ev
		}
		return Array(vs...), nil
	case map[string]any:
		fields := make(map[string]Value, len(x))
		for k, elem := range x {
			ev, err := c.Encode(elem, behavior)
			if err != nil {
				return Value{}, err
			}
			fields[k] = ev
		}
		return Map(fields), nil
	default:
		return Value{}, goerr.New("cannot encode native value type",
			goerr.V("type", fmt.Sprintf("%T", v)),
			goerr.T(TagUnsupportedValueKind))
	}
}

func (c *Codec) encodeServerTimestamp(st ServerTimestamp, behavior TimestampBehavior) (Value, error) {
	switch behavior {
	case TimestampEstimate:
		return Timestamp(st.Estimate), nil
	case TimestampPrevious:
		if st.Previous == nil {
			return Null(), nil
		}
		return c.Encode(st.Previous, behavior)
	default:
		return Null(), nil
	}
}

// relativeRefPath strips the projects/…/documents/ prefix from a
// reference's full resource name, leaving the path Doc accepts back.
func relativeRefPath(ref *firestore.DocumentRef) string {
	const sep = "/documents/"
	if i := strings.Index(ref.Path, sep); i >= 0 {
		return ref.Path[i+len(sep):]
	}
	return ref.Path
}
