package db

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

// timestampField is the creation-time field every listing collection shares;
// it is the only field the gateway ever sorts on.
const timestampField = "timestamp"

// firestoreSource adapts a Firestore client to the CollectionSource contract.
type firestoreSource struct {
	client *firestore.Client
}

// NewFirestoreSource wraps a Firestore client as a gateway collection source.
func NewFirestoreSource(client *firestore.Client) CollectionSource {
	return &firestoreSource{client: client}
}

func (s *firestoreSource) Collection(name string) Collection {
	return &firestoreCollection{ref: s.client.Collection(name)}
}

type firestoreCollection struct {
	ref *firestore.CollectionRef
}

// Fetch pushes the predicate set and sort down to Firestore and drains the
// full snapshot. Every predicate is ANDed; FilterOp values map directly onto
// Firestore query operators.
func (c *firestoreCollection) Fetch(ctx context.Context, filters []Filter, sort SortOption) ([]Document, error) {
	q := c.ref.Query
	for _, f := range filters {
		q = q.Where(f.Field, string(f.Op), f.Value)
	}
	switch sort {
	case SortNewestFirst:
		q = q.OrderBy(timestampField, firestore.Desc)
	case SortOldestFirst:
		q = q.OrderBy(timestampField, firestore.Asc)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var docs []Document
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterating %q: %w", c.ref.Path, err)
		}
		docs = append(docs, Document{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return docs, nil
}
