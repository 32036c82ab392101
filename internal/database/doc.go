// Package database provides the data access layer for the inventory.
//
// # Architecture
//
//	database/
//	├── database.go      # Connection setup, schema migrations, invalidation hooks
//	├── migrations/      # Embedded SQL schema (version 1: the book table)
//	├── books/           # SQL-backed Record Store
//	└── memstore/        # In-memory Record Store (go-memdb), same contract
//
// # Using the stores
//
//	db, err := database.NewDatabase("./bookshelf.db", database.WithLogger(log))
//	defer db.Close()
//
//	repo := books.NewRepository(db.DB, db.Tracker)
//	book, err := repo.FindByID(ctx, 1)
//
// Both stores report committed writes to a live.Tracker, which is what keeps
// the Watch* streams up to date. The SQL store does it through gorm callbacks
// registered in NewDatabase; the memory store invalidates after each
// transaction commit.
//
// # Concurrency
//
// The handle is safe for concurrent use. SQLite serialises writers itself
// (WAL journal, busy timeout); no application-level lock is taken.
package database
