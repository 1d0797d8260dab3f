package repository

import (
	"context"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/khanhtoandng/me-sub001/internal/content"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepo is an in-memory repository used for local development and unit
// tests. Documents are kept BSON-encoded so callers never share state with
// the store, and filters and sorting follow MongoDB semantics for the
// subset of queries the schemas produce.
type MemoryRepo[T content.Entity] struct {
	mu     sync.RWMutex
	store  map[string][]byte
	newDoc func() T
}

func NewMemoryRepo[T content.Entity](newDoc func() T) *MemoryRepo[T] {
	return &MemoryRepo[T]{store: make(map[string][]byte), newDoc: newDoc}
}

func (m *MemoryRepo[T]) Create(ctx context.Context, e T) error {
	raw, err := bson.Marshal(e)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[e.GetID()] = raw
	return nil
}

func (m *MemoryRepo[T]) Get(ctx context.Context, id string) (T, error) {
	m.mu.RLock()
	raw, ok := m.store[id]
	m.mu.RUnlock()
	if !ok {
		var zero T
		return zero, content.ErrNotFound
	}
	return m.decode(raw)
}

type memEntry struct {
	raw []byte
	doc bson.M
}

func (m *MemoryRepo[T]) List(ctx context.Context, q content.Query) ([]T, error) {
	m.mu.RLock()
	entries := make([]memEntry, 0, len(m.store))
	for _, raw := range m.store {
		var doc bson.M
		if err := bson.Unmarshal(raw, &doc); err != nil {
			m.mu.RUnlock()
			return nil, err
		}
		if matches(doc, q.Match) {
			entries = append(entries, memEntry{raw: raw, doc: doc})
		}
	}
	m.mu.RUnlock()

	sort.SliceStable(entries, func(i, j int) bool {
		for _, key := range q.Sort {
			c := compareValues(entries[i].doc[key.Key], entries[j].doc[key.Key])
			if direction(key.Value) < 0 {
				c = -c
			}
			if c != 0 {
				return c < 0
			}
		}
		return compareValues(entries[i].doc["_id"], entries[j].doc["_id"]) < 0
	})
	if q.Limit > 0 && int64(len(entries)) > q.Limit {
		entries = entries[:q.Limit]
	}

	out := make([]T, 0, len(entries))
	for _, en := range entries {
		d, err := m.decode(en.raw)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (m *MemoryRepo[T]) Replace(ctx context.Context, e T) error {
	raw, err := bson.Marshal(e)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[e.GetID()]; !ok {
		return content.ErrNotFound
	}
	m.store[e.GetID()] = raw
	return nil
}

func (m *MemoryRepo[T]) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return content.ErrNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *MemoryRepo[T]) decode(raw []byte) (T, error) {
	d := m.newDoc()
	if err := bson.Unmarshal(raw, d); err != nil {
		var zero T
		return zero, err
	}
	return d, nil
}

// matches applies equality filters; a filter on an array field matches when
// any element is equal.
func matches(doc bson.M, filter bson.M) bool {
	for field, want := range filter {
		got, ok := doc[field]
		if !ok {
			return false
		}
		if arr, isArr := got.(bson.A); isArr {
			found := false
			for _, el := range arr {
				if equalValues(el, want) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
			continue
		}
		if !equalValues(got, want) {
			return false
		}
	}
	return true
}

func equalValues(a, b interface{}) bool {
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		return ok && af == bf
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func direction(v interface{}) int {
	switch d := v.(type) {
	case int:
		return d
	case int32:
		return int(d)
	case int64:
		return int(d)
	}
	return 1
}

// compareValues orders missing values first, then by the natural order of
// numbers, strings, booleans and dates.
func compareValues(a, b interface{}) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
	}
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv)
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case av == bv:
				return 0
			case !av:
				return -1
			}
			return 1
		}
	case primitive.DateTime:
		if bv, ok := b.(primitive.DateTime); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	}
	return 0
}
