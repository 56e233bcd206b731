package firequery

import (
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
)

// DocumentID is the sentinel path denoting the document's own identifier
// in filters, order clauses and cursors.
const DocumentID = firestore.DocumentID

// ParseFieldPath splits a dot-separated field path into its segments.
// Segments containing dots or other special characters are written
// between backticks, with backslash escaping backtick and backslash,
// matching Firestore's field path syntax:
//
//	user.address.city
//	`first.last`.score
func ParseFieldPath(path string) (firestore.FieldPath, error) {
	if path == "" {
		return nil, goerr.New("field path is empty", goerr.T(TagInvalidFieldPath))
	}

	var segs []string
	var cur strings.Builder
	quoted := false
	escaped := false
	segmentDone := false // a quoted segment ended; only '.' or EOF may follow

	fail := func(msg string) (firestore.FieldPath, error) {
		return nil, goerr.New(msg, goerr.V("path", path), goerr.T(TagInvalidFieldPath))
	}

	for _, r := range path {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case quoted && r == '\\':
			escaped = true
		case quoted && r == '`':
			quoted = false
			segmentDone = true
		case quoted:
			cur.WriteRune(r)
		case r == '`':
			if cur.Len() > 0 {
				return fail("backtick may only open a segment")
			}
			quoted = true
		case r == '.':
			if cur.Len() == 0 && !segmentDone {
				return fail("field path has an empty segment")
			}
			segs = append(segs, cur.String())
			cur.Reset()
			segmentDone = false
		default:
			if segmentDone {
				return fail("unexpected character after quoted segment")
			}
			cur.WriteRune(r)
		}
	}

	if quoted || escaped {
		return fail("field path has an unterminated escape")
	}
	if cur.Len() == 0 && !segmentDone {
		return fail("field path has an empty segment")
	}
	segs = append(segs, cur.String())
	return firestore.FieldPath(segs), nil
}
