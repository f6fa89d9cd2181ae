package response

import (
	"time"

	"library-lending/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookResponse struct {
	ID              uuid.UUID `json:"id"`
	ISBN            string    `json:"isbn"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	Category        string    `json:"category,omitempty"`
	PublicationYear int       `json:"publicationYear,omitempty"`
	Publisher       string    `json:"publisher,omitempty"`
	Description     string    `json:"description,omitempty"`
	ShelfLocation   string    `json:"shelfLocation,omitempty"`
	TotalCopies     int       `json:"totalCopies"`
	AvailableCopies int       `json:"availableCopies"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func FromBookView(v *queries.BookView) *BookResponse {
	return &BookResponse{
		ID:              v.ID,
		ISBN:            v.ISBN,
		Title:           v.Title,
		Author:          v.Author,
		Category:        v.Category,
		PublicationYear: v.PublicationYear,
		Publisher:       v.Publisher,
		Description:     v.Description,
		ShelfLocation:   v.ShelfLocation,
		TotalCopies:     v.TotalCopies,
		AvailableCopies: v.AvailableCopies,
		Status:          v.Status,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
}

func FromBookViews(views []*queries.BookView) []*BookResponse {
	out := make([]*BookResponse, len(views))
	for i, v := range views {
		out[i] = FromBookView(v)
	}
	return out
}
