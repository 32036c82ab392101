package form

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/entities"
)

func validForm() BookForm {
	return BookForm{
		Name:     "Dune",
		Category: "Fiction",
		Quantity: "5",
		Price:    "29.90",
	}
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected *ValidationError, got %v", err)
	return verr.Fields
}

func TestNew(t *testing.T) {
	f := New()

	assert.Equal(t, "Fiction", f.Category)
	assert.Equal(t, "0", f.Quantity)
	assert.Equal(t, "0.00", f.Price)
	assert.False(t, f.Valid(), "a new form has no name")
}

func TestValidate_Valid(t *testing.T) {
	assert.NoError(t, validForm().Validate())
}

func TestValidate_FieldErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*BookForm)
		field  string
	}{
		{name: "empty name", modify: func(f *BookForm) { f.Name = "" }, field: "name"},
		{name: "blank name", modify: func(f *BookForm) { f.Name = "   " }, field: "name"},
		{name: "no category", modify: func(f *BookForm) { f.Category = "" }, field: "category"},
		{name: "other without custom", modify: func(f *BookForm) { f.Category = entities.CategoryOther }, field: "custom_category"},
		{name: "other with blank custom", modify: func(f *BookForm) {
			f.Category = entities.CategoryOther
			f.CustomCategory = "  "
		}, field: "custom_category"},
		{name: "quantity not a number", modify: func(f *BookForm) { f.Quantity = "five" }, field: "quantity"},
		{name: "negative quantity", modify: func(f *BookForm) { f.Quantity = "-1" }, field: "quantity"},
		{name: "price not a number", modify: func(f *BookForm) { f.Price = "abc" }, field: "price"},
		{name: "empty price", modify: func(f *BookForm) { f.Price = "" }, field: "price"},
		{name: "NaN price", modify: func(f *BookForm) { f.Price = "NaN" }, field: "price"},
		{name: "infinite price", modify: func(f *BookForm) { f.Price = "Inf" }, field: "price"},
		{name: "infinity price", modify: func(f *BookForm) { f.Price = "+infinity" }, field: "price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.modify(&f)

			fields := fieldErrors(t, f.Validate())
			assert.Contains(t, fields, tt.field)
			assert.Len(t, fields, 1)
		})
	}
}

func TestValidate_ReportsEveryField(t *testing.T) {
	err := BookForm{Quantity: "x", Price: "y"}.Validate()

	fields := fieldErrors(t, err)
	assert.Equal(t, "is required", fields["name"])
	assert.Equal(t, "is required", fields["category"])
	assert.Equal(t, "must be a whole number", fields["quantity"])
	assert.Equal(t, "must be a valid price", fields["price"])
	assert.Contains(t, err.Error(), "validation failed: category is required")
}

func TestToBook(t *testing.T) {
	f := validForm()
	f.Price = "1,234.50"

	book, err := f.ToBook(0)
	require.NoError(t, err)
	assert.Equal(t, entities.Book{Name: "Dune", Category: "Fiction", Quantity: 5, Price: 1234.5}, book)
	assert.False(t, book.IsPersisted())

	book, err = f.ToBook(42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), book.ID)
}

func TestToBook_CustomCategory(t *testing.T) {
	f := validForm()
	f.Category = entities.CategoryOther
	f.CustomCategory = " Poetry "

	book, err := f.ToBook(0)
	require.NoError(t, err)
	assert.Equal(t, "Poetry", book.Category)
}

func TestToBook_Invalid(t *testing.T) {
	f := validForm()
	f.Name = ""

	_, err := f.ToBook(0)
	fieldErrors(t, err)
}

func TestToBook_RejectsNonFinitePrice(t *testing.T) {
	for _, price := range []string{"NaN", "Inf"} {
		f := validForm()
		f.Price = price

		_, err := f.ToBook(0)
		assert.Contains(t, fieldErrors(t, err), "price", price)
	}
}

func TestFromBook(t *testing.T) {
	f := FromBook(entities.Book{ID: 3, Name: "Cosmos", Category: "Science", Quantity: 2, Price: 1500})

	assert.Equal(t, BookForm{Name: "Cosmos", Category: "Science", Quantity: "2", Price: "1,500.00"}, f)

	book, err := f.ToBook(3)
	require.NoError(t, err)
	assert.Equal(t, entities.Book{ID: 3, Name: "Cosmos", Category: "Science", Quantity: 2, Price: 1500}, book)
}

func TestFromBook_UnknownCategory(t *testing.T) {
	f := FromBook(entities.Book{Name: "Leaves of Grass", Category: "Poetry"})

	assert.Equal(t, entities.CategoryOther, f.Category)
	assert.Equal(t, "Poetry", f.CustomCategory)

	book, err := f.ToBook(1)
	require.NoError(t, err)
	assert.Equal(t, "Poetry", book.Category)
}
