package firequery_test

import (
	"testing"
	"time"

	"github.com/smarter-day/firequery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeSnapshot(t *testing.T) {
	client := newTestClient(t)
	codec := firequery.NewCodec(firequery.NewConnection(client))

	t.Run("existing document", func(t *testing.T) {
		snap := &fakeSnapshot{
			exists: true,
			data: map[string]any{
				"name":  "alice",
				"score": int64(12),
				"tags":  []any{"a", "b"},
			},
			ref: client.Doc("rooms/r1"),
			md:  firequery.SnapshotMetadata{HasPendingWrites: true},
		}

		got, err := codec.EncodeSnapshot(snap, firequery.TimestampNone)
		require.NoError(t, err)

		assert.Equal(t, "rooms/r1", got.Path)
		assert.True(t, got.Metadata.HasPendingWrites)
		assert.False(t, got.Metadata.FromCache)
		assert.Equal(t, firequery.String("alice"), got.Data["name"])
		assert.Equal(t, firequery.Int(12), got.Data["score"])
		assert.Equal(t, firequery.Array(firequery.String("a"), firequery.String("b")), got.Data["tags"])
	})

	t.Run("missing document still carries metadata", func(t *testing.T) {
		snap := &fakeSnapshot{
			exists: false,
			ref:    client.Doc("rooms/gone"),
			md:     firequery.SnapshotMetadata{FromCache: true},
		}

		got, err := codec.EncodeSnapshot(snap, firequery.TimestampNone)
		require.NoError(t, err)

		assert.Nil(t, got.Data)
		assert.Equal(t, "rooms/gone", got.Path)
		assert.True(t, got.Metadata.FromCache)
		assert.False(t, got.Metadata.HasPendingWrites)
	})

	t.Run("pending server timestamp honors the policy", func(t *testing.T) {
		estimate := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
		snap := &fakeSnapshot{
			exists: true,
			data: map[string]any{
				"updatedAt": firequery.ServerTimestamp{Estimate: estimate},
			},
			ref: client.Doc("rooms/r1"),
		}

		got, err := codec.EncodeSnapshot(snap, firequery.TimestampEstimate)
		require.NoError(t, err)
		assert.Equal(t, firequery.Timestamp(estimate), got.Data["updatedAt"])

		got, err = codec.EncodeSnapshot(snap, firequery.TimestampNone)
		require.NoError(t, err)
		assert.Equal(t, firequery.Null(), got.Data["updatedAt"])
	})

	t.Run("unencodable field fails the whole snapshot", func(t *testing.T) {
		snap := &fakeSnapshot{
			exists: true,
			data:   map[string]any{"bad": struct{}{}},
			ref:    client.Doc("rooms/r1"),
		}

		_, err := codec.EncodeSnapshot(snap, firequery.TimestampNone)
		require.Error(t, err)
		assert.True(t, firequery.IsUnsupportedValueKind(err))
	})
}
