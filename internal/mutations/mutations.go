// Package mutations describes the writes the view model sends to a store, in
// a form that can be run in-process or queued durably.
package mutations

import (
	"context"
	"fmt"

	"github.com/mrlokans/bookshelf/internal/entities"
)

type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Writer is the write side of a Record Store.
type Writer interface {
	Insert(ctx context.Context, book *entities.Book) error
	Update(ctx context.Context, book *entities.Book) error
	Delete(ctx context.Context, book *entities.Book) error
}

// Mutation is a single write against the book table.
type Mutation struct {
	Op   Op            `json:"op"`
	Book entities.Book `json:"book"`
}

// ForSave inserts books that have not been persisted yet and updates the rest.
func ForSave(book entities.Book) Mutation {
	if book.IsPersisted() {
		return Mutation{Op: OpUpdate, Book: book}
	}
	return Mutation{Op: OpInsert, Book: book}
}

// ForDelete deletes book.
func ForDelete(book entities.Book) Mutation {
	return Mutation{Op: OpDelete, Book: book}
}

// Apply runs the mutation against w.
func (m Mutation) Apply(ctx context.Context, w Writer) error {
	book := m.Book
	switch m.Op {
	case OpInsert:
		return w.Insert(ctx, &book)
	case OpUpdate:
		return w.Update(ctx, &book)
	case OpDelete:
		return w.Delete(ctx, &book)
	default:
		return fmt.Errorf("unknown mutation op %q", m.Op)
	}
}

func (m Mutation) String() string {
	return fmt.Sprintf("%s book %d (%q)", m.Op, m.Book.ID, m.Book.Name)
}
