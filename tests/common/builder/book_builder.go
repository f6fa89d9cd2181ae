//go:build unit || integration

package builder

import (
	"library-lending/internal/domain/book"

	"github.com/google/uuid"
)

type BookBuilder struct {
	ID              uuid.UUID
	ISBN            string
	Title           string
	Author          string
	Category        string
	PublicationYear int
	Publisher       string
	Description     string
	ShelfLocation   string
	TotalCopies     int
	AvailableCopies int
	Status          book.Status
}

func NewBookBuilder() *BookBuilder {
	return &BookBuilder{
		ID:              uuid.New(),
		ISBN:            "978-0-13-468599-1",
		Title:           "The Go Programming Language",
		Author:          "Donovan & Kernighan",
		Category:        "Programming",
		PublicationYear: 2015,
		Publisher:       "Addison-Wesley",
		ShelfLocation:   "A-12",
		TotalCopies:     3,
		AvailableCopies: 3,
		Status:          book.StatusActive,
	}
}

func (b *BookBuilder) With(mutate func(*BookBuilder)) *BookBuilder {
	mutate(b)
	return b
}

func (b *BookBuilder) WithCopies(total, available int) *BookBuilder {
	b.TotalCopies = total
	b.AvailableCopies = available
	return b
}

func (b *BookBuilder) WithStatus(status book.Status) *BookBuilder {
	b.Status = status
	return b
}

func (b *BookBuilder) BuildDomain() *book.Book {
	return book.ReconstructBook(
		b.ID,
		b.ISBN,
		b.Title,
		b.Author,
		b.Category,
		b.PublicationYear,
		b.Publisher,
		b.Description,
		b.ShelfLocation,
		b.TotalCopies,
		b.AvailableCopies,
		b.Status,
		BaseTime,
		BaseTime,
	)
}
