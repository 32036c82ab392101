// Package form holds the add/edit book form: its field state, the rules that
// decide whether it can be saved, and the conversions to and from a record.
package form

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// BookForm is the raw text of the add/edit form.
type BookForm struct {
	Name           string `json:"name" validate:"notblank"`
	Category       string `json:"category" validate:"required"`
	CustomCategory string `json:"custom_category"`
	Quantity       string `json:"quantity" validate:"quantity"`
	Price          string `json:"price" validate:"price"`
}

// ValidationError lists the fields that keep the form from being saved.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+" "+e.Fields[name])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var validate = func() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// Registration only fails for empty tags or nil functions.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("quantity", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
		return err == nil && n >= 0
	})
	_ = v.RegisterValidation("price", func(fl validator.FieldLevel) bool {
		_, err := ParsePrice(fl.Field().String())
		return err == nil
	})

	v.RegisterStructValidation(func(sl validator.StructLevel) {
		f := sl.Current().Interface().(BookForm)
		if f.Category == entities.CategoryOther && strings.TrimSpace(f.CustomCategory) == "" {
			sl.ReportError(f.CustomCategory, "custom_category", "CustomCategory", "required", "")
		}
	}, BookForm{})

	return v
}()

// New returns the form for a book that does not exist yet.
func New() BookForm {
	return BookForm{
		Category: entities.DefaultCategories[0],
		Quantity: "0",
		Price:    ZeroPrice,
	}
}

// FromBook pre-fills the form for editing. A category outside the default
// list is shown as Other with the custom text filled in.
func FromBook(book entities.Book) BookForm {
	f := BookForm{
		Name:     book.Name,
		Category: book.Category,
		Quantity: strconv.Itoa(book.Quantity),
		Price:    FormatPrice(book.Price),
	}
	if book.Category == entities.CategoryOther || !entities.IsDefaultCategory(book.Category) {
		f.Category = entities.CategoryOther
		f.CustomCategory = book.Category
	}
	return f
}

// Validate reports every field that is not acceptable as a *ValidationError.
func (f BookForm) Validate() error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	verr := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, e := range fieldErrs {
		verr.Fields[e.Field()] = friendlyMessage(e)
	}
	return verr
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "notblank":
		return "is required"
	case "quantity":
		return "must be a whole number"
	case "price":
		return "must be a valid price"
	default:
		return "is invalid"
	}
}

// Valid reports whether the form can be saved.
func (f BookForm) Valid() bool {
	return f.Validate() == nil
}

// ToBook validates the form and builds the record with the given id. Use id
// 0 for a book that should be inserted.
func (f BookForm) ToBook(id int64) (entities.Book, error) {
	if err := f.Validate(); err != nil {
		return entities.Book{}, err
	}

	category := f.Category
	if category == entities.CategoryOther {
		category = strings.TrimSpace(f.CustomCategory)
	}

	quantity, err := strconv.Atoi(strings.TrimSpace(f.Quantity))
	if err != nil {
		return entities.Book{}, fmt.Errorf("quantity: %w", err)
	}
	price, err := ParsePrice(f.Price)
	if err != nil {
		return entities.Book{}, fmt.Errorf("price: %w", err)
	}

	return entities.Book{
		ID:       id,
		Name:     strings.TrimSpace(f.Name),
		Category: category,
		Quantity: quantity,
		Price:    price,
	}, nil
}
