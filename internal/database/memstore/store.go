// Package memstore is an in-memory Record Store backed by go-memdb. It has the
// same contract as books.Repository and is used when nothing should be
// written to disk.
package memstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/go-memdb"

	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/live"
)

const (
	indexID       = "id"
	indexCategory = "category"
)

// Store keeps books in a go-memdb table.
type Store struct {
	db      *memdb.MemDB
	tracker *live.Tracker

	// lastID is only touched inside write transactions, which memdb serialises.
	lastID int64
}

func schema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			entities.BookTable: {
				Name: entities.BookTable,
				Indexes: map[string]*memdb.IndexSchema{
					indexID: {
						Name:    indexID,
						Unique:  true,
						Indexer: &memdb.IntFieldIndex{Field: "ID"},
					},
					indexCategory: {
						Name:         indexCategory,
						Unique:       false,
						AllowMissing: true,
						Indexer:      &memdb.StringFieldIndex{Field: "Category"},
					},
				},
			},
		},
	}
}

// New creates an empty store reporting writes to tracker.
func New(tracker *live.Tracker) (*Store, error) {
	db, err := memdb.NewMemDB(schema())
	if err != nil {
		return nil, fmt.Errorf("create memdb: %w", err)
	}
	return &Store{db: db, tracker: tracker}, nil
}

// Insert stores a new book and writes the assigned id back into it.
func (s *Store) Insert(ctx context.Context, book *entities.Book) error {
	if book.IsPersisted() {
		return fmt.Errorf("insert book %d: %w", book.ID, books.ErrAlreadyPersisted)
	}

	txn := s.db.Txn(true)
	defer txn.Abort()

	row := *book
	row.ID = s.lastID + 1
	if err := txn.Insert(entities.BookTable, &row); err != nil {
		return fmt.Errorf("insert book: %w", err)
	}
	s.lastID = row.ID
	txn.Commit()

	book.ID = row.ID
	s.tracker.Invalidate(entities.BookTable)
	return nil
}

// Update replaces the stored book with the same id; a missing row is a no-op.
func (s *Store) Update(ctx context.Context, book *entities.Book) error {
	if !book.IsPersisted() {
		return fmt.Errorf("update book: %w", books.ErrNotPersisted)
	}

	txn := s.db.Txn(true)
	defer txn.Abort()

	existing, err := txn.First(entities.BookTable, indexID, book.ID)
	if err != nil {
		return fmt.Errorf("update book %d: %w", book.ID, err)
	}
	if existing == nil {
		return nil
	}

	row := *book
	if err := txn.Insert(entities.BookTable, &row); err != nil {
		return fmt.Errorf("update book %d: %w", book.ID, err)
	}
	txn.Commit()

	s.tracker.Invalidate(entities.BookTable)
	return nil
}

// Delete removes the book with the same id, if any.
func (s *Store) Delete(ctx context.Context, book *entities.Book) error {
	if !book.IsPersisted() {
		return nil
	}

	txn := s.db.Txn(true)
	defer txn.Abort()

	existing, err := txn.First(entities.BookTable, indexID, book.ID)
	if err != nil {
		return fmt.Errorf("delete book %d: %w", book.ID, err)
	}
	if existing == nil {
		return nil
	}
	if err := txn.Delete(entities.BookTable, existing); err != nil {
		return fmt.Errorf("delete book %d: %w", book.ID, err)
	}
	txn.Commit()

	s.tracker.Invalidate(entities.BookTable)
	return nil
}

// FindByID returns the book with the given id, or nil if there is none.
func (s *Store) FindByID(ctx context.Context, id int64) (*entities.Book, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(entities.BookTable, indexID, id)
	if err != nil {
		return nil, fmt.Errorf("find book %d: %w", id, err)
	}
	if raw == nil {
		return nil, nil
	}
	book := *raw.(*entities.Book)
	return &book, nil
}

// ListAll returns every book, newest first.
func (s *Store) ListAll(ctx context.Context) ([]entities.Book, error) {
	return s.list(indexID)
}

// ListByCategory returns the books whose category equals category exactly,
// newest first.
func (s *Store) ListByCategory(ctx context.Context, category string) ([]entities.Book, error) {
	return s.list(indexCategory, category)
}

func (s *Store) list(index string, args ...any) ([]entities.Book, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(entities.BookTable, index, args...)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	result := make([]entities.Book, 0)
	for raw := it.Next(); raw != nil; raw = it.Next() {
		result = append(result, *raw.(*entities.Book))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID > result[j].ID
	})
	return result, nil
}

// ListDistinctCategories returns each category in use once, ascending.
func (s *Store) ListDistinctCategories(ctx context.Context) ([]string, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(entities.BookTable, indexCategory)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	categories := make([]string, 0)
	seen := make(map[string]struct{})
	for raw := it.Next(); raw != nil; raw = it.Next() {
		category := raw.(*entities.Book).Category
		if _, ok := seen[category]; ok {
			continue
		}
		seen[category] = struct{}{}
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories, nil
}

// Count returns the number of stored books.
func (s *Store) Count(ctx context.Context) (int64, error) {
	all, err := s.ListAll(ctx)
	return int64(len(all)), err
}

// WatchAll streams ListAll, re-running it after every committed write.
func (s *Store) WatchAll(ctx context.Context) <-chan live.Result[[]entities.Book] {
	return live.Watch(ctx, s.tracker, s.ListAll, entities.BookTable)
}

// WatchByCategory streams ListByCategory for category.
func (s *Store) WatchByCategory(ctx context.Context, category string) <-chan live.Result[[]entities.Book] {
	return live.Watch(ctx, s.tracker, func(ctx context.Context) ([]entities.Book, error) {
		return s.ListByCategory(ctx, category)
	}, entities.BookTable)
}

// WatchCategories streams ListDistinctCategories.
func (s *Store) WatchCategories(ctx context.Context) <-chan live.Result[[]string] {
	return live.Watch(ctx, s.tracker, s.ListDistinctCategories, entities.BookTable)
}
