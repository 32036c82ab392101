// Command seed creates a demo inventory database with a handful of books.
// Usage: go run ./cmd/seed [-db path/to/demo.db]
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/logger"
)

const defaultDemoDatabasePath = "./demo/bookshelf.db"

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	keep := flag.Bool("keep", false, "add to an existing database instead of starting fresh")
	flag.Parse()

	log := logger.New(logger.Config{Writer: os.Stderr, Level: "info"})

	if err := seed(context.Background(), *dbPath, !*keep, log); err != nil {
		log.Fatal().Err(err).Msg("failed to generate demo database")
	}
	log.Info().Str("path", *dbPath).Msg("demo database generated")
}

func seed(ctx context.Context, dbPath string, fresh bool, log zerolog.Logger) error {
	if fresh {
		if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return err
	}

	db, err := database.NewDatabase(dbPath, database.WithLogger(log))
	if err != nil {
		return err
	}
	defer db.Close()

	repo := books.NewRepository(db.DB, db.Tracker)
	for _, b := range demoBooks() {
		book := b
		if err := repo.Insert(ctx, &book); err != nil {
			log.Error().Err(err).Str("name", book.Name).Msg("failed to save book")
			continue
		}
		log.Info().Int64("id", book.ID).Str("name", book.Name).Str("category", book.Category).Msg("saved")
	}
	return nil
}

func demoBooks() []entities.Book {
	return []entities.Book{
		{Name: "Meditations", Category: "Non-Fiction", Quantity: 4, Price: 9.99},
		{Name: "Pride and Prejudice", Category: "Romance", Quantity: 6, Price: 7.50},
		{Name: "Frankenstein", Category: "Horror", Quantity: 3, Price: 8.25},
		{Name: "On the Origin of Species", Category: "Science", Quantity: 2, Price: 14.00},
		{Name: "The Art of War", Category: "History", Quantity: 5, Price: 6.99},
		{Name: "War and Peace", Category: "Fiction", Quantity: 1, Price: 18.40},
		{Name: "Crime and Punishment", Category: "Fiction", Quantity: 2, Price: 11.20},
		{Name: "The Picture of Dorian Gray", Category: "Fiction", Quantity: 3, Price: 9.10},
		{Name: "Alice's Adventures in Wonderland", Category: "Children", Quantity: 8, Price: 5.99},
		{Name: "The Autobiography of Benjamin Franklin", Category: "Biography", Quantity: 2, Price: 12.75},
		{Name: "The Hound of the Baskervilles", Category: "Mystery", Quantity: 4, Price: 7.80},
		{Name: "The Wonderful Wizard of Oz", Category: "Fantasy", Quantity: 3, Price: 6.40},
		{Name: "Self-Reliance", Category: "Self-Help", Quantity: 5, Price: 3.99},
		{Name: "Euclid's Elements", Category: "Educational", Quantity: 1, Price: 1250.00},
		{Name: "Leaves of Grass", Category: "Poetry", Quantity: 2, Price: 10.00},
	}
}
