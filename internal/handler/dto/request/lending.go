package request

import "github.com/google/uuid"

type BorrowRequest struct {
	// UserID is optional for members (defaults to the caller); admins may
	// check a book out on a member's behalf from the desk.
	UserID uuid.UUID `json:"user_id,omitempty"`
	BookID uuid.UUID `json:"book_id" binding:"required"`
}

type ReserveRequest struct {
	UserID uuid.UUID `json:"user_id,omitempty"`
	BookID uuid.UUID `json:"book_id" binding:"required"`
}

type ExtendMembershipRequest struct {
	Months int `json:"months" binding:"required,min=1,max=60"`
}

type UpdateProfileRequest struct {
	FullName       string `json:"full_name" binding:"required"`
	Phone          string `json:"phone,omitempty"`
	Address        string `json:"address,omitempty"`
	MembershipType string `json:"membership_type" binding:"required"`
}
