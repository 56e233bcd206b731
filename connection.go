package firequery

import (
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
)

// IConnection bundles the two capabilities the library needs from the
// database client: building references from paths and executing queries,
// optionally inside a transaction.
type IConnection interface {
	Validate() error
	GetClient() *firestore.Client
	GetTransaction() *firestore.Transaction
	HasTransaction() bool
	HasClient() bool
	Close() error
	Doc(path string) *firestore.DocumentRef
	BaseQuery(collectionPath string, collectionGroup bool) (firestore.Query, error)
}

type Connection struct {
	client      *firestore.Client
	transaction *firestore.Transaction
}

var _ ReferenceBuilder = (*Connection)(nil)

func NewConnection(client *firestore.Client, transaction ...*firestore.Transaction) *Connection {
	c := &Connection{client: client}
	if len(transaction) > 0 && transaction[0] != nil {
		c.transaction = transaction[0]
	}
	return c
}

func (c *Connection) Validate() error {
	if !c.HasClient() {
		return goerr.New("firestore client is required")
	}
	return nil
}

func (c *Connection) GetClient() *firestore.Client {
	return c.client
}

func (c *Connection) GetTransaction() *firestore.Transaction {
	return c.transaction
}

func (c *Connection) HasTransaction() bool {
	return c.transaction != nil
}

func (c *Connection) HasClient() bool {
	return c.client != nil
}

func (c *Connection) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// WithTransaction returns a connection that runs queries through tx.
func (c *Connection) WithTransaction(tx *firestore.Transaction) *Connection {
	return &Connection{client: c.client, transaction: tx}
}

// Doc resolves a slash-separated document path.
func (c *Connection) Doc(path string) *firestore.DocumentRef {
	return c.client.Doc(path)
}

// BaseQuery resolves a collection path, or a collection ID for group
// queries, into the base query the builder refines. A collection path
// must have an odd number of segments; a collection group ID must be a
// single segment.
func (c *Connection) BaseQuery(collectionPath string, collectionGroup bool) (firestore.Query, error) {
	if collectionGroup {
		if collectionPath == "" || strings.Contains(collectionPath, "/") {
			return firestore.Query{}, goerr.New("collection group ID must be a single path segment",
				goerr.V("path", collectionPath),
				goerr.T(TagInvalidFieldPath))
		}
		return c.client.CollectionGroup(collectionPath).Query, nil
	}

	coll := c.client.Collection(collectionPath)
	if coll == nil {
		return firestore.Query{}, goerr.New("invalid collection path",
			goerr.V("path", collectionPath),
			goerr.T(TagInvalidFieldPath))
	}
	return coll.Query, nil
}
