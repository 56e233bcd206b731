package firequery_test

import (
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/smarter-day/firequery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFieldPath(t *testing.T) {
	cases := []struct {
		name string
		path string
		want firestore.FieldPath
	}{
		{"single segment", "score", firestore.FieldPath{"score"}},
		{"nested", "user.address.city", firestore.FieldPath{"user", "address", "city"}},
		{"quoted segment with dot", "`first.last`.score", firestore.FieldPath{"first.last", "score"}},
		{"escaped backtick", "`a\\`b`", firestore.FieldPath{"a`b"}},
		{"escaped backslash", "`a\\\\b`", firestore.FieldPath{"a\\b"}},
		{"quoted only", "`odd name`", firestore.FieldPath{"odd name"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := firequery.ParseFieldPath(tc.path)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseFieldPathInvalid(t *testing.T) {
	paths := []string{
		"",
		".",
		"a..b",
		"a.",
		".a",
		"`unterminated",
		"`seg`tail",
		"mid`dle",
	}

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			_, err := firequery.ParseFieldPath(path)
			require.Error(t, err)
			assert.True(t, firequery.IsInvalidFieldPath(err))
		})
	}
}
