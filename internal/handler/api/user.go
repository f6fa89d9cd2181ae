package api

import (
	"errors"
	"net/http"

	"library-lending/internal/domain/user"
	reqdto "library-lending/internal/handler/dto/request"
	resdto "library-lending/internal/handler/dto/response"
	"library-lending/internal/handler/middleware"
	"library-lending/internal/pkg/clock"
	"library-lending/internal/usecase/commands"
	"library-lending/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserHandler struct {
	userUseCase commands.UserCommands
	userQueries queries.UserQueries
	clock       clock.Clock
}

func NewUserHandler(userUseCase commands.UserCommands, userQueries queries.UserQueries, clock clock.Clock) *UserHandler {
	return &UserHandler{userUseCase: userUseCase, userQueries: userQueries, clock: clock}
}

// @Summary List members
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search by username, name or email"
// @Success 200 {array} resdto.UserResponse
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	var views []*queries.UserView
	var err error
	if q := c.Query("q"); q != "" {
		views, err = h.userQueries.Search(c.Request.Context(), q)
	} else {
		views, err = h.userQueries.ListMembers(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, resdto.FromUserViews(views))
}

// @Summary Get user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} resdto.UserResponse
// @Failure 404 {object} map[string]string
// @Router /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	view, err := h.userQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, resdto.FromUserView(view))
}

// @Summary Expired memberships
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.UserResponse
// @Router /users/expired-memberships [get]
func (h *UserHandler) ListExpiredMemberships(c *gin.Context) {
	views, err := h.userQueries.ListExpiredMemberships(c.Request.Context(), h.clock.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, resdto.FromUserViews(views))
}

// @Summary Extend membership
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body reqdto.ExtendMembershipRequest true "Extension period"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /users/{id}/membership [post]
func (h *UserHandler) ExtendMembership(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req reqdto.ExtendMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.userUseCase.ExtendMembership(c.Request.Context(), id, req.Months); err != nil {
		if errors.Is(err, commands.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Membership extended"})
}

// @Summary Update own profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} map[string]string
// @Router /users/me [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	callerID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	input := commands.UpdateProfileInput{
		FullName:       req.FullName,
		Phone:          req.Phone,
		Address:        req.Address,
		MembershipType: req.MembershipType,
	}
	if err := h.userUseCase.UpdateProfile(c.Request.Context(), callerID, input); err != nil {
		switch {
		case errors.Is(err, commands.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, user.ErrInvalidMembershipType):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid membership type"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated"})
}
