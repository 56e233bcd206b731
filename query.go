package firequery

import (
	"encoding/json"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
)

// Direction is the sort direction of an order clause.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

func (d Direction) native() (firestore.Direction, error) {
	switch d {
	case "", Ascending:
		return firestore.Asc, nil
	case Descending:
		return firestore.Desc, nil
	default:
		return 0, goerr.New("unknown sort direction",
			goerr.V("direction", string(d)),
			goerr.T(TagUnsupportedValueKind))
	}
}

// Order is a single order clause. Path may be the DocumentID sentinel.
type Order struct {
	Path      string    `json:"path"`
	Direction Direction `json:"direction,omitempty"`
}

// Limit caps the result count. FromBottom selects the trailing N
// documents of the ordered result instead of the leading N.
type Limit struct {
	Count      int  `json:"count"`
	FromBottom bool `json:"fromBottom,omitempty"`
}

// Cursor marks a pagination position. Either Values holds one wire value
// per effective order clause, or Snapshot references a previously fetched
// document whose fields are resolved against the order spec at build
// time. Snapshot cursors are an in-process convenience and do not travel
// over the wire.
type Cursor struct {
	Values    []Value  `json:"values,omitempty"`
	Snapshot  Snapshot `json:"-"`
	Inclusive bool     `json:"inclusive,omitempty"`
}

// Source selects where a read is served from.
type Source string

const (
	SourceDefault Source = "default"
	SourceServer  Source = "server"
	SourceCache   Source = "cache"
)

// ParseSource maps a wire string onto a Source. The empty string means
// SourceDefault; anything else unknown is rejected rather than defaulted,
// so schema skew between caller and library surfaces immediately.
func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case "":
		return SourceDefault, nil
	case SourceDefault, SourceServer, SourceCache:
		return Source(s), nil
	default:
		return "", goerr.New("unknown read source",
			goerr.V("source", s),
			goerr.T(TagUnsupportedValueKind))
	}
}

// QuerySpec is the wire-format description of a query. It is constructed
// fresh per request, never mutated, and consumed once by the builder.
type QuerySpec struct {
	CollectionPath  string  `json:"collectionPath"`
	CollectionGroup bool    `json:"collectionGroup,omitempty"`
	Filter          *Filter `json:"filter,omitempty"`
	OrderBy         []Order `json:"orderBy,omitempty"`
	Limit           *Limit  `json:"limit,omitempty"`
	StartAt         *Cursor `json:"startAt,omitempty"`
	EndAt           *Cursor `json:"endAt,omitempty"`
	Source          Source  `json:"source,omitempty"`
}

// ParseQuerySpec decodes a wire message into a QuerySpec and validates
// its enum fields.
func ParseQuerySpec(data []byte) (*QuerySpec, error) {
	var spec QuerySpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, goerr.Wrap(err, "malformed query spec")
	}

	source, err := ParseSource(string(spec.Source))
	if err != nil {
		return nil, err
	}
	spec.Source = source

	for _, o := range spec.OrderBy {
		if _, err := o.Direction.native(); err != nil {
			return nil, err
		}
	}
	return &spec, nil
}
