package book

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidISBN       = errors.New("isbn must not be empty")
	ErrInvalidTitle      = errors.New("title must not be empty")
	ErrInvalidCopyCount  = errors.New("copy count must not be negative")
	ErrNoCopiesAvailable = errors.New("no copies available for borrowing")
	ErrCopiesExceedTotal = errors.New("available copies cannot exceed total copies")
	ErrInvalidStatus     = errors.New("invalid book status")
)

// Book is the inventory unit: one title with a countable number of physical
// copies. availableCopies is mutated only through BorrowCopy/ReturnCopy/
// SetCopies so that 0 <= availableCopies <= totalCopies always holds.
type Book struct {
	id              uuid.UUID
	isbn            string
	title           string
	author          string
	category        string
	publicationYear int
	publisher       string
	description     string
	shelfLocation   string
	totalCopies     int
	availableCopies int
	status          Status
	createdAt       time.Time
	updatedAt       time.Time
}

func NewBook(isbn, title, author, category string, publicationYear, totalCopies int) (*Book, error) {
	if isbn == "" {
		return nil, ErrInvalidISBN
	}
	if title == "" {
		return nil, ErrInvalidTitle
	}
	if totalCopies < 0 {
		return nil, ErrInvalidCopyCount
	}

	return &Book{
		id:              uuid.New(),
		isbn:            isbn,
		title:           title,
		author:          author,
		category:        category,
		publicationYear: publicationYear,
		totalCopies:     totalCopies,
		availableCopies: totalCopies,
		status:          StatusActive,
	}, nil
}

func ReconstructBook(
	id uuid.UUID,
	isbn, title, author, category string,
	publicationYear int,
	publisher, description, shelfLocation string,
	totalCopies, availableCopies int,
	status Status,
	createdAt, updatedAt time.Time,
) *Book {
	return &Book{
		id:              id,
		isbn:            isbn,
		title:           title,
		author:          author,
		category:        category,
		publicationYear: publicationYear,
		publisher:       publisher,
		description:     description,
		shelfLocation:   shelfLocation,
		totalCopies:     totalCopies,
		availableCopies: availableCopies,
		status:          status,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// IsAvailable reports whether a copy can be borrowed right now.
func (b *Book) IsAvailable() bool {
	return b.availableCopies > 0 && b.status == StatusActive
}

// BorrowCopy takes one copy off the shelf.
func (b *Book) BorrowCopy() error {
	if !b.IsAvailable() {
		return ErrNoCopiesAvailable
	}
	b.availableCopies--
	return nil
}

// ReturnCopy puts one copy back on the shelf. The count is clamped at
// totalCopies; a correct caller never hits the clamp.
func (b *Book) ReturnCopy() {
	if b.availableCopies < b.totalCopies {
		b.availableCopies++
	}
}

// SetCopies is an administrative resize of the inventory.
func (b *Book) SetCopies(total, available int) error {
	if total < 0 || available < 0 {
		return ErrInvalidCopyCount
	}
	if available > total {
		return ErrCopiesExceedTotal
	}
	b.totalCopies = total
	b.availableCopies = available
	return nil
}

func (b *Book) SetStatus(status Status) error {
	if !status.IsValid() {
		return ErrInvalidStatus
	}
	b.status = status
	return nil
}

func (b *Book) UpdateDetails(title, author, category string, publicationYear int, publisher, description, shelfLocation string) error {
	if title == "" {
		return ErrInvalidTitle
	}
	b.title = title
	b.author = author
	b.category = category
	b.publicationYear = publicationYear
	b.publisher = publisher
	b.description = description
	b.shelfLocation = shelfLocation
	return nil
}

func (b *Book) ID() uuid.UUID        { return b.id }
func (b *Book) ISBN() string         { return b.isbn }
func (b *Book) Title() string        { return b.title }
func (b *Book) Author() string       { return b.author }
func (b *Book) Category() string     { return b.category }
func (b *Book) PublicationYear() int { return b.publicationYear }
func (b *Book) Publisher() string    { return b.publisher }
func (b *Book) Description() string  { return b.description }
func (b *Book) ShelfLocation() string {
	return b.shelfLocation
}
func (b *Book) TotalCopies() int     { return b.totalCopies }
func (b *Book) AvailableCopies() int { return b.availableCopies }
func (b *Book) Status() Status       { return b.status }
func (b *Book) CreatedAt() time.Time { return b.createdAt }
func (b *Book) UpdatedAt() time.Time { return b.updatedAt }
