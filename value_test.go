package firequery_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/smarter-day/firequery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueJSON(t *testing.T) {
	ts := time.Date(2024, 7, 1, 12, 30, 0, 0, time.UTC)

	values := []firequery.Value{
		firequery.Null(),
		firequery.Bool(true),
		firequery.Int(42),
		firequery.Double(3.5),
		firequery.String("hello"),
		firequery.Bytes([]byte{0x01, 0x02}),
		firequery.Timestamp(ts),
		firequery.GeoPoint(35.68, 139.76),
		firequery.Reference("rooms/r1"),
		firequery.Array(firequery.Int(1), firequery.String("x")),
		firequery.Map(map[string]firequery.Value{
			"nested": firequery.Array(firequery.Bool(false)),
			"score":  firequery.Int(10),
		}),
	}

	for _, v := range values {
		t.Run(string(v.Kind), func(t *testing.T) {
			data, err := json.Marshal(v)
			require.NoError(t, err)

			var got firequery.Value
			require.NoError(t, json.Unmarshal(data, &got))
			assert.Equal(t, v, got)
		})
	}
}

func TestValueJSONUnknownKind(t *testing.T) {
	// Unknown kinds survive unmarshalling; rejection happens at decode
	// time so version skew is not mistaken for a broken payload.
	var v firequery.Value
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"vector","values":[]}`), &v))
	assert.Equal(t, firequery.Kind("vector"), v.Kind)
}

func TestValueJSONMissingPayload(t *testing.T) {
	var v firequery.Value
	err := json.Unmarshal([]byte(`{"kind":"int"}`), &v)
	require.Error(t, err)
	assert.False(t, firequery.IsUnsupportedValueKind(err))
}
