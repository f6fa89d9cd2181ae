package response

import (
	"time"

	"library-lending/internal/usecase/queries"

	"github.com/google/uuid"
)

type LoanResponse struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"userId"`
	Username     string     `json:"username"`
	BookID       uuid.UUID  `json:"bookId"`
	BookTitle    string     `json:"bookTitle"`
	BorrowDate   time.Time  `json:"borrowDate"`
	DueDate      time.Time  `json:"dueDate"`
	ReturnDate   *time.Time `json:"returnDate,omitempty"`
	Status       string     `json:"status"`
	RenewalCount int        `json:"renewalCount"`
	MaxRenewals  int        `json:"maxRenewals"`
	FineCents    int64      `json:"fineCents"`
	FinePaid     bool       `json:"finePaid"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func FromLoanView(v *queries.LoanView) *LoanResponse {
	return &LoanResponse{
		ID:           v.ID,
		UserID:       v.UserID,
		Username:     v.Username,
		BookID:       v.BookID,
		BookTitle:    v.BookTitle,
		BorrowDate:   v.BorrowDate,
		DueDate:      v.DueDate,
		ReturnDate:   v.ReturnDate,
		Status:       v.Status,
		RenewalCount: v.RenewalCount,
		MaxRenewals:  v.MaxRenewals,
		FineCents:    v.FineCents,
		FinePaid:     v.FinePaid,
		CreatedAt:    v.CreatedAt,
	}
}

func FromLoanViews(views []*queries.LoanView) []*LoanResponse {
	out := make([]*LoanResponse, len(views))
	for i, v := range views {
		out[i] = FromLoanView(v)
	}
	return out
}
