package firequery_test

import (
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/smarter-day/firequery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileFieldFilter(t *testing.T) {
	client := newTestClient(t)
	codec := firequery.NewCodec(firequery.NewConnection(client))

	t.Run("operator and value map onto the native filter", func(t *testing.T) {
		got, err := codec.CompileFilter(
			firequery.FieldWhere("score", firequery.OpGreaterThanOrEqual, firequery.Int(10)))
		require.NoError(t, err)
		assert.Equal(t, firestore.PropertyPathFilter{
			Path:     firestore.FieldPath{"score"},
			Operator: ">=",
			Value:    int64(10),
		}, got)
	})

	t.Run("nested field path", func(t *testing.T) {
		got, err := codec.CompileFilter(
			firequery.FieldWhere("user.address.city", firequery.OpEqual, firequery.String("Tokyo")))
		require.NoError(t, err)
		assert.Equal(t, firestore.PropertyPathFilter{
			Path:     firestore.FieldPath{"user", "address", "city"},
			Operator: "==",
			Value:    "Tokyo",
		}, got)
	})

	t.Run("identifier sentinel maps to the native identifier predicate", func(t *testing.T) {
		got, err := codec.CompileFilter(
			firequery.FieldWhere(firequery.DocumentID, firequery.OpEqual, firequery.String("r1")))
		require.NoError(t, err)
		assert.Equal(t, firestore.PropertyFilter{
			Path:     firestore.DocumentID,
			Operator: "==",
			Value:    "r1",
		}, got)
	})

	t.Run("unknown operator", func(t *testing.T) {
		_, err := codec.CompileFilter(
			firequery.FieldWhere("score", "~=", firequery.Int(1)))
		require.Error(t, err)
		assert.True(t, firequery.IsUnsupportedValueKind(err))
	})

	t.Run("invalid field path", func(t *testing.T) {
		_, err := codec.CompileFilter(
			firequery.FieldWhere("a..b", firequery.OpEqual, firequery.Int(1)))
		require.Error(t, err)
		assert.True(t, firequery.IsInvalidFieldPath(err))
	})

	t.Run("operand decode failure propagates unchanged", func(t *testing.T) {
		_, err := codec.CompileFilter(
			firequery.FieldWhere("score", firequery.OpEqual, firequery.Value{Kind: "vector"}))
		require.Error(t, err)
		assert.True(t, firequery.IsUnsupportedValueKind(err))
	})
}

func TestCompileCompositeFilter(t *testing.T) {
	client := newTestClient(t)
	codec := firequery.NewCodec(firequery.NewConnection(client))

	a := firequery.FieldWhere("a", firequery.OpEqual, firequery.Int(1))
	b := firequery.FieldWhere("b", firequery.OpEqual, firequery.Int(2))
	c := firequery.FieldWhere("c", firequery.OpEqual, firequery.Int(3))

	t.Run("and compiles to a single flat combinator", func(t *testing.T) {
		got, err := codec.CompileFilter(firequery.And(a, b, c))
		require.NoError(t, err)

		and, ok := got.(firestore.AndFilter)
		require.True(t, ok)
		require.Len(t, and.Filters, 3)
		for i, path := range []string{"a", "b", "c"} {
			child, ok := and.Filters[i].(firestore.PropertyPathFilter)
			require.True(t, ok)
			assert.Equal(t, firestore.FieldPath{path}, child.Path)
		}
	})

	t.Run("or preserves child order", func(t *testing.T) {
		got, err := codec.CompileFilter(firequery.Or(b, a))
		require.NoError(t, err)

		or, ok := got.(firestore.OrFilter)
		require.True(t, ok)
		require.Len(t, or.Filters, 2)
		assert.Equal(t, firestore.FieldPath{"b"}, or.Filters[0].(firestore.PropertyPathFilter).Path)
		assert.Equal(t, firestore.FieldPath{"a"}, or.Filters[1].(firestore.PropertyPathFilter).Path)
	})

	t.Run("nested composites keep their grouping", func(t *testing.T) {
		got, err := codec.CompileFilter(firequery.And(a, firequery.Or(b, c)))
		require.NoError(t, err)

		and := got.(firestore.AndFilter)
		require.Len(t, and.Filters, 2)
		_, ok := and.Filters[1].(firestore.OrFilter)
		assert.True(t, ok)
	})

	t.Run("compiling twice is deterministic", func(t *testing.T) {
		node := firequery.And(a, firequery.Or(b, c))
		first, err := codec.CompileFilter(node)
		require.NoError(t, err)
		second, err := codec.CompileFilter(node)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("empty composite", func(t *testing.T) {
		_, err := codec.CompileFilter(firequery.And())
		require.Error(t, err)
	})

	t.Run("node with both variants set", func(t *testing.T) {
		node := firequery.FieldWhere("a", firequery.OpEqual, firequery.Int(1))
		node.Composite = &firequery.CompositeFilter{Op: firequery.CompositeAnd, Filters: []firequery.Filter{a}}
		_, err := codec.CompileFilter(node)
		require.Error(t, err)
	})
}
