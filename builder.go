package firequery

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
)

// BuilderOption configures query building.
type BuilderOption func(*builderOptions)

type builderOptions struct {
	autoIDOrder bool
}

// WithDocumentIDOrder makes the builder append a document identifier
// order clause whenever a cursor is present and no explicit clause covers
// the identifier. Some deployments require this for deterministic
// pagination. The appended clause counts toward cursor arity, so literal
// cursors must then carry the identifier value as well. Without this
// option the builder only logs a warning.
func WithDocumentIDOrder() BuilderOption {
	return func(o *builderOptions) {
		o.autoIDOrder = true
	}
}

// Builder compiles a QuerySpec onto a base query. It holds no mutable
// state and may be shared across goroutines.
type Builder struct {
	codec *Codec
	opts  builderOptions
}

func NewBuilder(refs ReferenceBuilder, opts ...BuilderOption) *Builder {
	var o builderOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &Builder{codec: NewCodec(refs), opts: o}
}

// Build applies the spec's filter, order clauses, limit and cursors onto
// base, in that fixed order. The ordering matters: the client resolves
// cursors against the order clauses registered before them.
//
// A limit with FromBottom maps to the client's LimitToLast, which inverts
// every order direction at build time and re-reverses the results inside
// GetAll, so the caller still observes the requested order.
func (b *Builder) Build(ctx context.Context, spec QuerySpec, base firestore.Query) (firestore.Query, error) {
	q := base

	if spec.Filter != nil {
		filter, err := b.codec.CompileFilter(*spec.Filter)
		if err != nil {
			return q, err
		}
		q = q.WhereEntity(filter)
	}

	orders, err := b.effectiveOrders(ctx, spec)
	if err != nil {
		return q, err
	}
	for _, o := range orders {
		dir, err := o.Direction.native()
		if err != nil {
			return q, err
		}
		if o.Path == DocumentID {
			q = q.OrderBy(firestore.DocumentID, dir)
			continue
		}
		fp, err := ParseFieldPath(o.Path)
		if err != nil {
			return q, err
		}
		q = q.OrderByPath(fp, dir)
	}

	if spec.Limit != nil {
		if spec.Limit.FromBottom {
			q = q.LimitToLast(spec.Limit.Count)
		} else {
			q = q.Limit(spec.Limit.Count)
		}
	}

	if spec.StartAt != nil {
		values, err := b.cursorValues(*spec.StartAt, orders, spec.CollectionGroup)
		if err != nil {
			return q, err
		}
		if spec.StartAt.Inclusive {
			q = q.StartAt(values...)
		} else {
			q = q.StartAfter(values...)
		}
	}

	if spec.EndAt != nil {
		values, err := b.cursorValues(*spec.EndAt, orders, spec.CollectionGroup)
		if err != nil {
			return q, err
		}
		if spec.EndAt.Inclusive {
			q = q.EndAt(values...)
		} else {
			q = q.EndBefore(values...)
		}
	}

	return q, nil
}

// effectiveOrders returns the order clauses the query will carry. With a
// cursor present and no clause on the identifier, the auto-append option
// adds one (direction of the last explicit clause); otherwise a warning
// is logged since pagination over ties is then non-deterministic.
func (b *Builder) effectiveOrders(ctx context.Context, spec QuerySpec) ([]Order, error) {
	orders := spec.OrderBy
	hasCursor := spec.StartAt != nil || spec.EndAt != nil
	if !hasCursor {
		return orders, nil
	}

	if !coversDocumentID(orders) {
		if b.opts.autoIDOrder {
			dir := Ascending
			if len(orders) > 0 {
				dir = orders[len(orders)-1].Direction
			}
			appended := make([]Order, 0, len(orders)+1)
			appended = append(appended, orders...)
			orders = append(appended, Order{Path: DocumentID, Direction: dir})
		} else {
			LoggerFrom(ctx).Warn("cursor without document identifier order; pagination over ties is non-deterministic",
				"collection", spec.CollectionPath)
		}
	}

	if len(orders) == 0 {
		return nil, goerr.New("cursor requires at least one order clause",
			goerr.V("collection", spec.CollectionPath),
			goerr.T(TagMissingOrderForCursor))
	}
	return orders, nil
}

func coversDocumentID(orders []Order) bool {
	for _, o := range orders {
		if o.Path == DocumentID {
			return true
		}
	}
	return false
}

// cursorValues resolves a cursor into one native value per effective
// order clause. Literal values decode through the codec and must match
// the clause count exactly; snapshot cursors read the field at each
// clause's path from the snapshot, or its identifier for the sentinel.
func (b *Builder) cursorValues(c Cursor, orders []Order, collectionGroup bool) ([]any, error) {
	if c.Snapshot != nil && len(c.Values) > 0 {
		return nil, goerr.New("cursor must carry either values or a snapshot, not both")
	}

	if c.Snapshot != nil {
		return b.snapshotCursorValues(c.Snapshot, orders, collectionGroup)
	}

	if len(c.Values) != len(orders) {
		return nil, goerr.New("cursor value count does not match order clauses",
			goerr.V("values", len(c.Values)),
			goerr.V("orders", len(orders)),
			goerr.T(TagCursorArityMismatch))
	}

	values := make([]any, len(c.Values))
	for i, v := range c.Values {
		decoded, err := b.codec.Decode(v)
		if err != nil {
			return nil, err
		}
		values[i] = decoded
	}
	return values, nil
}

func (b *Builder) snapshotCursorValues(snap Snapshot, orders []Order, collectionGroup bool) ([]any, error) {
	values := make([]any, len(orders))
	for i, o := range orders {
		if o.Path == DocumentID {
			ref := snap.Ref()
			if ref == nil {
				return nil, goerr.New("snapshot cursor has no document reference",
					goerr.T(TagMissingOrderForCursor))
			}
			// Collection group queries order __name__ by the full relative
			// path; single-collection queries by the bare document ID.
			if collectionGroup {
				values[i] = relativeRefPath(ref)
			} else {
				values[i] = ref.ID
			}
			continue
		}

		fp, err := ParseFieldPath(o.Path)
		if err != nil {
			return nil, err
		}
		v, err := snap.DataAtPath(fp)
		if err != nil {
			return nil, goerr.Wrap(err, "snapshot cursor is missing an ordered field",
				goerr.V("path", o.Path))
		}
		values[i] = v
	}
	return values, nil
}
