package firequery

import (
	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
)

// SnapshotMetadata carries the cache/pending-write flags of a snapshot.
type SnapshotMetadata struct {
	HasPendingWrites bool
	FromCache        bool
}

// Snapshot is the accessor surface the serializer needs from a native
// document snapshot. *firestore.DocumentSnapshot is adapted via
// NewSnapshot; cache-capable clients can provide their own
// implementation, including ServerTimestamp sentinels in the data map.
type Snapshot interface {
	Exists() bool
	Data() map[string]any
	DataAtPath(fp firestore.FieldPath) (any, error)
	Ref() *firestore.DocumentRef
	Metadata() SnapshotMetadata
}

type documentSnapshot struct {
	ds *firestore.DocumentSnapshot
}

// NewSnapshot adapts a client document snapshot. Reads through the server
// client are never pending nor cached, so metadata is always clear.
func NewSnapshot(ds *firestore.DocumentSnapshot) Snapshot {
	return &documentSnapshot{ds: ds}
}

func (s *documentSnapshot) Exists() bool { return s.ds.Exists() }

func (s *documentSnapshot) Data() map[string]any { return s.ds.Data() }

func (s *documentSnapshot) DataAtPath(fp firestore.FieldPath) (any, error) {
	return s.ds.DataAtPath(fp)
}

func (s *documentSnapshot) Ref() *firestore.DocumentRef { return s.ds.Ref }

func (s *documentSnapshot) Metadata() SnapshotMetadata { return SnapshotMetadata{} }

// WireMetadata is the wire form of snapshot metadata.
type WireMetadata struct {
	HasPendingWrites bool `json:"hasPendingWrites"`
	FromCache        bool `json:"isFromCache"`
}

// WireSnapshot is the wire form of a document snapshot. Data is nil when
// the document does not exist; metadata is populated either way.
type WireSnapshot struct {
	Path     string           `json:"path,omitempty"`
	Data     map[string]Value `json:"data,omitempty"`
	Metadata WireMetadata     `json:"metadata"`
}

// EncodeSnapshot converts a native snapshot into its wire form, rendering
// unresolved server timestamps at any depth according to behavior. Either
// the whole snapshot encodes or an error is returned; no partial result.
func (c *Codec) EncodeSnapshot(snap Snapshot, behavior TimestampBehavior) (WireSnapshot, error) {
	out := WireSnapshot{Metadata: encodeMetadata(snap.Metadata())}
	if ref := snap.Ref(); ref != nil {
		out.Path = relativeRefPath(ref)
	}

	if !snap.Exists() {
		return out, nil
	}

	data := snap.Data()
	fields := make(map[string]Value, len(data))
	for name, v := range data {
		encoded, err := c.Encode(v, behavior)
		if err != nil {
			return WireSnapshot{}, goerr.Wrap(err, "failed to encode snapshot field",
				goerr.V("field", name),
				goerr.V("path", out.Path))
		}
		fields[name] = encoded
	}
	out.Data = fields
	return out, nil
}

func encodeMetadata(md SnapshotMetadata) WireMetadata {
	return WireMetadata{
		HasPendingWrites: md.HasPendingWrites,
		FromCache:        md.FromCache,
	}
}
