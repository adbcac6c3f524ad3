package database

import (
	"context"
	"fmt"
	"sort"
	"sync"

	sssom "github.com/cthoyt/sssom-go"
	"github.com/cthoyt/sssom-go/curie"
)

// Memory is an in-process Repository. Safe for concurrent use.
type Memory struct {
	mu       sync.RWMutex
	mappings map[string]sssom.Mapping
	hash     sssom.Hash
}

var _ Repository = (*Memory)(nil)

// NewMemory returns an empty in-memory repository using the given hash, or
// the default content hash when nil.
func NewMemory(hash sssom.Hash) *Memory {
	if hash == nil {
		hash = sssom.HashV1
	}
	return &Memory{
		mappings: make(map[string]sssom.Mapping),
		hash:     hash,
	}
}

func (db *Memory) Add(_ context.Context, m sssom.Mapping) (curie.Reference, error) {
	m.Record = nil
	ref := db.hash(m)
	m.Record = &ref

	db.mu.Lock()
	defer db.mu.Unlock()
	if _, exists := db.mappings[ref.CURIE()]; !exists {
		db.mappings[ref.CURIE()] = m
	}
	return ref, nil
}

func (db *Memory) Get(_ context.Context, ref curie.Reference) (sssom.Mapping, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	m, ok := db.mappings[ref.CURIE()]
	if !ok {
		return sssom.Mapping{}, fmt.Errorf("%w: %s", ErrNotFound, ref.CURIE())
	}
	return m, nil
}

func (db *Memory) Delete(_ context.Context, ref curie.Reference) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.mappings[ref.CURIE()]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, ref.CURIE())
	}
	delete(db.mappings, ref.CURIE())
	return nil
}

func (db *Memory) List(_ context.Context, clauses ...Clause) ([]sssom.Mapping, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	keys := make([]string, 0, len(db.mappings))
	for key := range db.mappings {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var out []sssom.Mapping
	for _, key := range keys {
		if m := db.mappings[key]; matchesAll(m, clauses) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (db *Memory) Count(_ context.Context) (int, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.mappings), nil
}

func (db *Memory) Curate(ctx context.Context, ref curie.Reference, mark sssom.Mark, authors []curie.Reference) (curie.Reference, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	m, ok := db.mappings[ref.CURIE()]
	if !ok {
		return curie.Reference{}, fmt.Errorf("%w: %s", ErrNotFound, ref.CURIE())
	}
	curated, newRef, err := curate(m, db.hash, mark, authors)
	if err != nil {
		return curie.Reference{}, err
	}
	db.mappings[newRef.CURIE()] = curated
	if newRef.CURIE() != ref.CURIE() {
		delete(db.mappings, ref.CURIE())
	}
	return newRef, nil
}

func (db *Memory) Publish(_ context.Context, ref curie.Reference, date *sssom.Date) (curie.Reference, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	m, ok := db.mappings[ref.CURIE()]
	if !ok {
		return curie.Reference{}, fmt.Errorf("%w: %s", ErrNotFound, ref.CURIE())
	}
	published, newRef := publish(m, db.hash, date)
	db.mappings[newRef.CURIE()] = published
	if newRef.CURIE() != ref.CURIE() {
		delete(db.mappings, ref.CURIE())
	}
	return newRef, nil
}

func (db *Memory) Close() error { return nil }
