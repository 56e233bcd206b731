package firequery

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
)

// Executor runs compiled queries against a connection and serializes the
// results. It is the boundary where blocking I/O happens; everything
// before it is pure.
type Executor struct {
	conn    IConnection
	builder *Builder
	codec   *Codec
	eb      *goerr.Builder
}

func NewExecutor(conn IConnection, opts ...BuilderOption) (*Executor, error) {
	if err := conn.Validate(); err != nil {
		return nil, err
	}
	return &Executor{
		conn:    conn,
		builder: NewBuilder(conn, opts...),
		codec:   NewCodec(conn),
		eb:      goerr.NewBuilder(goerr.T(TagDatabase)),
	}, nil
}

// Query compiles spec, executes it and returns the wire snapshots in
// result order. Results are always collected via GetAll, which is where
// the client re-reverses limit-to-last queries into the requested order.
func (e *Executor) Query(ctx context.Context, spec QuerySpec, behavior TimestampBehavior) ([]WireSnapshot, error) {
	q, err := e.prepare(ctx, spec)
	if err != nil {
		return nil, err
	}

	var docs []*firestore.DocumentSnapshot
	if e.conn.HasTransaction() {
		docs, err = e.conn.GetTransaction().Documents(q).GetAll()
	} else {
		docs, err = q.Documents(ctx).GetAll()
	}
	if err != nil {
		return nil, e.eb.Wrap(err, "failed to run query",
			goerr.V("collection", spec.CollectionPath),
			goerr.V("grpc_code", grpcCode(err)))
	}

	out := make([]WireSnapshot, 0, len(docs))
	for _, ds := range docs {
		ws, err := e.codec.EncodeSnapshot(NewSnapshot(ds), behavior)
		if err != nil {
			return nil, err
		}
		out = append(out, ws)
	}

	LoggerFrom(ctx).Debug("query executed",
		"collection", spec.CollectionPath,
		"documents", len(out))
	return out, nil
}

// Each streams wire snapshots to fn instead of materializing the whole
// result. Limit-to-last queries cannot be streamed since the client
// reverses them only in GetAll; use Query for those.
func (e *Executor) Each(ctx context.Context, spec QuerySpec, behavior TimestampBehavior, fn func(WireSnapshot) error) error {
	if spec.Limit != nil && spec.Limit.FromBottom {
		return goerr.New("limit-to-last query cannot be streamed",
			goerr.V("collection", spec.CollectionPath))
	}

	q, err := e.prepare(ctx, spec)
	if err != nil {
		return err
	}

	var iter *firestore.DocumentIterator
	if e.conn.HasTransaction() {
		iter = e.conn.GetTransaction().Documents(q)
	} else {
		iter = q.Documents(ctx)
	}
	defer iter.Stop()

	for {
		ds, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return e.eb.Wrap(err, "failed to iterate query results",
				goerr.V("collection", spec.CollectionPath),
				goerr.V("grpc_code", grpcCode(err)))
		}

		ws, err := e.codec.EncodeSnapshot(NewSnapshot(ds), behavior)
		if err != nil {
			return err
		}
		if err := fn(ws); err != nil {
			return err
		}
	}
}

func (e *Executor) prepare(ctx context.Context, spec QuerySpec) (firestore.Query, error) {
	source, err := ParseSource(string(spec.Source))
	if err != nil {
		return firestore.Query{}, err
	}
	// The server client has no local cache to serve from.
	if source == SourceCache {
		return firestore.Query{}, goerr.New("cache reads are not available on the server client",
			goerr.V("source", string(source)))
	}

	base, err := e.conn.BaseQuery(spec.CollectionPath, spec.CollectionGroup)
	if err != nil {
		return firestore.Query{}, err
	}
	return e.builder.Build(ctx, spec, base)
}
