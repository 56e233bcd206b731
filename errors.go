package firequery

import "github.com/m-mizutani/goerr/v2"

// Error tags classify every failure the library can produce. Callers
// should branch on the predicates below rather than matching messages.
var (
	// TagUnsupportedValueKind marks an unknown wire value kind, operator
	// or enum value. It signals schema-version skew between the caller
	// and this library, not a malformed payload.
	TagUnsupportedValueKind = goerr.NewTag("unsupported_value_kind")

	// TagInvalidFieldPath marks a field or document path the path parser
	// rejected (empty segment, unterminated escape, wrong shape).
	TagInvalidFieldPath = goerr.NewTag("invalid_field_path")

	// TagCursorArityMismatch marks a literal cursor whose value count
	// does not match the effective order spec.
	TagCursorArityMismatch = goerr.NewTag("cursor_arity_mismatch")

	// TagMissingOrderForCursor marks a cursor that has no order clauses
	// to align against.
	TagMissingOrderForCursor = goerr.NewTag("missing_order_for_cursor")

	// TagDatabase marks errors passed through from the Firestore client.
	TagDatabase = goerr.NewTag("database")
)

func IsUnsupportedValueKind(err error) bool { return goerr.HasTag(err, TagUnsupportedValueKind) }

func IsInvalidFieldPath(err error) bool { return goerr.HasTag(err, TagInvalidFieldPath) }

func IsCursorArityMismatch(err error) bool { return goerr.HasTag(err, TagCursorArityMismatch) }

func IsMissingOrderForCursor(err error) bool { return goerr.HasTag(err, TagMissingOrderForCursor) }

func IsDatabaseError(err error) bool { return goerr.HasTag(err, TagDatabase) }
