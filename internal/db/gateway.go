package db

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// FilterOp is a predicate operator the document store understands.
type FilterOp string

const (
	// FilterEq matches when the field equals the value.
	FilterEq FilterOp = "=="
	// FilterArrayContains matches when the (array) field contains the value.
	FilterArrayContains FilterOp = "array-contains"
)

// Filter is one predicate in a conjunctive query.
type Filter struct {
	Field string
	Op    FilterOp
	Value interface{}
}

// FilterValue is an optional filter operand. The zero value means "no
// restriction"; it replaces the UI's "All Categories"/"All Locations"
// sentinel strings, which are translated at the HTTP boundary.
type FilterValue struct {
	value string
	set   bool
}

// AnyValue returns the absent filter value: the predicate is omitted from
// the query entirely.
func AnyValue() FilterValue { return FilterValue{} }

// Value returns a filter value restricting results to v.
func Value(v string) FilterValue { return FilterValue{value: v, set: true} }

// Get reports the operand and whether the filter applies.
func (f FilterValue) Get() (string, bool) { return f.value, f.set }

// SortOption selects the result ordering. Only the two timestamp orderings
// are recognized; anything else leaves the store-defined order untouched.
type SortOption int

const (
	SortUnspecified SortOption = iota
	SortNewestFirst
	SortOldestFirst
)

// Page is a 1-based page descriptor.
type Page struct {
	Number int
	Size   int
}

// Document is a raw record from a collection: the document ID plus a flat
// mapping of field names to scalar/array values. Typed shapes are imposed at
// the listing-service boundary, not here.
type Document struct {
	ID   string
	Data map[string]interface{}
}

// Collection is the read contract of one named collection in the store:
// execute a conjunctive predicate set with an optional sort and return the
// full matching snapshot.
type Collection interface {
	Fetch(ctx context.Context, filters []Filter, sort SortOption) ([]Document, error)
}

// CollectionSource resolves collection names to their store handles.
type CollectionSource interface {
	Collection(name string) Collection
}

// PageResult is one window of a filtered result set together with the size
// of the whole set.
type PageResult struct {
	Items      []Document
	TotalItems int
}

// Gateway builds and executes filtered, sorted, paginated queries against
// named collections.
//
// Pagination is client-side windowing: the entire filtered snapshot is
// fetched, TotalItems is its size, and the requested window is sliced out.
// This is correct but does not scale to very large collections; it is a
// known limitation carried deliberately, since TotalItems must reflect the
// full filtered set on every page.
type Gateway struct {
	source CollectionSource
	logger *zap.Logger
}

// NewGateway creates a Gateway over the given collection source.
func NewGateway(source CollectionSource, logger *zap.Logger) *Gateway {
	return &Gateway{source: source, logger: logger}
}

// List executes the composed query and returns the page [(n-1)*s, n*s) of
// the filtered-and-sorted set. A page past the end yields empty Items with
// the true TotalItems.
func (g *Gateway) List(ctx context.Context, collection string, filters []Filter, sort SortOption, page Page) (*PageResult, error) {
	if page.Number < 1 {
		return nil, fmt.Errorf("%w: page number must be >= 1, got %d", ErrQueryFailure, page.Number)
	}
	if page.Size < 1 {
		return nil, fmt.Errorf("%w: page size must be > 0, got %d", ErrQueryFailure, page.Size)
	}

	docs, err := g.source.Collection(collection).Fetch(ctx, filters, sort)
	if err != nil {
		return nil, fmt.Errorf("%w: collection %q: %v", ErrQueryFailure, collection, err)
	}

	total := len(docs)
	// The window arithmetic must hold up for arbitrarily large page
	// descriptors: (Number-1)*Size can overflow, so compare against the
	// last populated page first. Any page past it is the empty window.
	start := total
	if last := (total-1)/page.Size + 1; page.Number <= last {
		start = (page.Number - 1) * page.Size
	}
	end := start + page.Size
	if end > total || end < start {
		end = total
	}

	g.logger.Debug("gateway query executed",
		zap.String("collection", collection),
		zap.Int("filters", len(filters)),
		zap.Int("totalItems", total),
		zap.Int("page", page.Number))

	return &PageResult{Items: docs[start:end], TotalItems: total}, nil
}

// ListAll executes the composed query without windowing.
func (g *Gateway) ListAll(ctx context.Context, collection string, filters []Filter) ([]Document, error) {
	docs, err := g.source.Collection(collection).Fetch(ctx, filters, SortUnspecified)
	if err != nil {
		return nil, fmt.Errorf("%w: collection %q: %v", ErrQueryFailure, collection, err)
	}
	return docs, nil
}

// Distinct scans the filtered collection and collects the set of values in
// use for field. String fields contribute their value; string-array fields
// contribute each element. The result is deduplicated; order is the
// encounter order of the scan and carries no meaning.
func (g *Gateway) Distinct(ctx context.Context, collection, field string, filters []Filter) ([]string, error) {
	docs, err := g.ListAll(ctx, collection, filters)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var values []string
	add := func(v string) {
		if v == "" {
			return
		}
		if _, dup := seen[v]; dup {
			return
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}

	for _, doc := range docs {
		switch v := doc.Data[field].(type) {
		case string:
			add(v)
		case []string:
			for _, elem := range v {
				add(elem)
			}
		case []interface{}:
			for _, elem := range v {
				if s, ok := elem.(string); ok {
					add(s)
				}
			}
		}
	}
	return values, nil
}
