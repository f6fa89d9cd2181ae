package response

import (
	"time"

	"library-lending/internal/usecase/commands"
	"library-lending/internal/usecase/queries"

	"github.com/google/uuid"
)

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	UserID      uuid.UUID `json:"user_id"`
	Role        string    `json:"role"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
}

type UserResponse struct {
	ID              uuid.UUID  `json:"id"`
	Username        string     `json:"username"`
	Email           string     `json:"email"`
	FullName        string     `json:"fullName"`
	Phone           string     `json:"phone,omitempty"`
	Address         string     `json:"address,omitempty"`
	Role            string     `json:"role"`
	MembershipType  string     `json:"membershipType,omitempty"`
	MembershipStart *time.Time `json:"membershipStart,omitempty"`
	MembershipEnd   *time.Time `json:"membershipEnd,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

type SweepResponse struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}

func FromUserView(v *queries.UserView) *UserResponse {
	return &UserResponse{
		ID:              v.ID,
		Username:        v.Username,
		Email:           v.Email,
		FullName:        v.FullName,
		Phone:           v.Phone,
		Address:         v.Address,
		Role:            v.Role,
		MembershipType:  v.MembershipType,
		MembershipStart: v.MembershipStart,
		MembershipEnd:   v.MembershipEnd,
		CreatedAt:       v.CreatedAt,
	}
}

func FromUserViews(views []*queries.UserView) []*UserResponse {
	out := make([]*UserResponse, len(views))
	for i, v := range views {
		out[i] = FromUserView(v)
	}
	return out
}

func FromSweepResult(r commands.SweepResult) *SweepResponse {
	return &SweepResponse{Processed: r.Processed, Failed: r.Failed}
}
