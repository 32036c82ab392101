package entities

// Book is a single inventory record.
type Book struct {
	ID       int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string  `gorm:"not null" json:"name"`
	Category string  `gorm:"not null;index" json:"category"`
	Quantity int     `gorm:"not null" json:"quantity"`
	Price    float64 `gorm:"not null" json:"price"`
}

func (Book) TableName() string {
	return BookTable
}

// IsPersisted reports whether the store has assigned an id to the book.
// A zero id marks a record that still has to be inserted.
func (b Book) IsPersisted() bool {
	return b.ID != 0
}

// BookTable is the name of the only table in the inventory database.
const BookTable = "book"

// CategoryOther is picked in the form when the user types a custom category.
const CategoryOther = "Other"

// DefaultCategories are offered by the add/edit form, in display order.
var DefaultCategories = []string{
	"Fiction",
	"Non-Fiction",
	"Science",
	"History",
	"Biography",
	"Fantasy",
	"Mystery",
	"Romance",
	"Horror",
	"Self-Help",
	"Children",
	"Educational",
	CategoryOther,
}

// IsDefaultCategory reports whether name is one of DefaultCategories.
func IsDefaultCategory(name string) bool {
	for _, c := range DefaultCategories {
		if c == name {
			return true
		}
	}
	return false
}
