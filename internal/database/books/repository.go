// Package books provides the SQL-backed store for inventory records.
//
// Writes go through gorm, so the invalidation hooks installed by
// database.NewDatabase notify live queries once they commit.
//
// # Usage
//
//	db, err := database.NewDatabase("./bookshelf.db")
//	repo := books.NewRepository(db.DB, db.Tracker)
//	err = repo.Insert(ctx, &entities.Book{Name: "Dune", Category: "Fiction"})
//	for res := range repo.WatchAll(ctx) {
//		...
//	}
package books

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/live"
)

var (
	// ErrAlreadyPersisted is returned when inserting a book that has an id.
	ErrAlreadyPersisted = errors.New("book already has an id")
	// ErrNotPersisted is returned when updating a book without an id.
	ErrNotPersisted = errors.New("book has no id")
)

// Repository handles all book database operations.
type Repository struct {
	db      *gorm.DB
	tracker *live.Tracker
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB, tracker *live.Tracker) *Repository {
	return &Repository{db: db, tracker: tracker}
}

// Insert stores a new book and writes the assigned id back into it.
func (r *Repository) Insert(ctx context.Context, book *entities.Book) error {
	if book.IsPersisted() {
		return fmt.Errorf("insert book %d: %w", book.ID, ErrAlreadyPersisted)
	}
	if err := r.db.WithContext(ctx).Create(book).Error; err != nil {
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}

// Update replaces every field of the book with the same id. Updating a book
// that no longer exists is not an error.
func (r *Repository) Update(ctx context.Context, book *entities.Book) error {
	if !book.IsPersisted() {
		return fmt.Errorf("update book: %w", ErrNotPersisted)
	}
	err := r.db.WithContext(ctx).
		Model(&entities.Book{}).
		Where("id = ?", book.ID).
		Select("name", "category", "quantity", "price").
		Updates(book).Error
	if err != nil {
		return fmt.Errorf("update book %d: %w", book.ID, err)
	}
	return nil
}

// Delete removes the book with the same id, if any.
func (r *Repository) Delete(ctx context.Context, book *entities.Book) error {
	if !book.IsPersisted() {
		return nil
	}
	if err := r.db.WithContext(ctx).Where("id = ?", book.ID).Delete(&entities.Book{}).Error; err != nil {
		return fmt.Errorf("delete book %d: %w", book.ID, err)
	}
	return nil
}

// FindByID returns the book with the given id, or nil if there is none.
func (r *Repository) FindByID(ctx context.Context, id int64) (*entities.Book, error) {
	var book entities.Book
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find book %d: %w", id, err)
	}
	return &book, nil
}

// ListAll returns every book, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]entities.Book, error) {
	books := make([]entities.Book, 0)
	err := r.db.WithContext(ctx).Order("id DESC").Find(&books).Error
	return books, err
}

// ListByCategory returns the books whose category equals category exactly,
// newest first.
func (r *Repository) ListByCategory(ctx context.Context, category string) ([]entities.Book, error) {
	books := make([]entities.Book, 0)
	err := r.db.WithContext(ctx).Where("category = ?", category).Order("id DESC").Find(&books).Error
	return books, err
}

// ListDistinctCategories returns each category in use once.
func (r *Repository) ListDistinctCategories(ctx context.Context) ([]string, error) {
	categories := make([]string, 0)
	err := r.db.WithContext(ctx).
		Model(&entities.Book{}).
		Distinct().
		Order("category ASC").
		Pluck("category", &categories).Error
	return categories, err
}

// Count returns the number of stored books.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Book{}).Count(&count).Error
	return count, err
}

// WatchAll streams ListAll, re-running it after every committed write.
func (r *Repository) WatchAll(ctx context.Context) <-chan live.Result[[]entities.Book] {
	return live.Watch(ctx, r.tracker, r.ListAll, entities.BookTable)
}

// WatchByCategory streams ListByCategory for category.
func (r *Repository) WatchByCategory(ctx context.Context, category string) <-chan live.Result[[]entities.Book] {
	return live.Watch(ctx, r.tracker, func(ctx context.Context) ([]entities.Book, error) {
		return r.ListByCategory(ctx, category)
	}, entities.BookTable)
}

// WatchCategories streams ListDistinctCategories.
func (r *Repository) WatchCategories(ctx context.Context) <-chan live.Result[[]string] {
	return live.Watch(ctx, r.tracker, r.ListDistinctCategories, entities.BookTable)
}
