package request

import "library-lending/internal/usecase/commands"

type CreateBookRequest struct {
	ISBN            string `json:"isbn" binding:"required"`
	Title           string `json:"title" binding:"required"`
	Author          string `json:"author" binding:"required"`
	Category        string `json:"category,omitempty"`
	PublicationYear int    `json:"publication_year,omitempty"`
	Publisher       string `json:"publisher,omitempty"`
	Description     string `json:"description,omitempty"`
	ShelfLocation   string `json:"shelf_location,omitempty"`
	TotalCopies     int    `json:"total_copies" binding:"required,min=1"`
}

func (r CreateBookRequest) ToInput() commands.CreateBookInput {
	return commands.CreateBookInput{
		ISBN:            r.ISBN,
		Title:           r.Title,
		Author:          r.Author,
		Category:        r.Category,
		PublicationYear: r.PublicationYear,
		Publisher:       r.Publisher,
		Description:     r.Description,
		ShelfLocation:   r.ShelfLocation,
		TotalCopies:     r.TotalCopies,
	}
}

type UpdateBookRequest struct {
	Title           string `json:"title" binding:"required"`
	Author          string `json:"author" binding:"required"`
	Category        string `json:"category,omitempty"`
	PublicationYear int    `json:"publication_year,omitempty"`
	Publisher       string `json:"publisher,omitempty"`
	Description     string `json:"description,omitempty"`
	ShelfLocation   string `json:"shelf_location,omitempty"`
}

func (r UpdateBookRequest) ToInput() commands.UpdateBookInput {
	return commands.UpdateBookInput{
		Title:           r.Title,
		Author:          r.Author,
		Category:        r.Category,
		PublicationYear: r.PublicationYear,
		Publisher:       r.Publisher,
		Description:     r.Description,
		ShelfLocation:   r.ShelfLocation,
	}
}

type SetCopiesRequest struct {
	TotalCopies     int `json:"total_copies" binding:"min=0"`
	AvailableCopies int `json:"available_copies" binding:"min=0"`
}

type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
