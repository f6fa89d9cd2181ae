package api

import (
	"context"
	"errors"
	"net/http"
	"time"

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

type LoanHandler struct {
	loanUseCase commands.LoanCommands
	loanQueries queries.LoanQueries
	clock       clock.Clock
}

func NewLoanHandler(loanUseCase commands.LoanCommands, loanQueries queries.LoanQueries, clock clock.Clock) *LoanHandler {
	return &LoanHandler{
		loanUseCase: loanUseCase,
		loanQueries: loanQueries,
		clock:       clock,
	}
}

// @Summary Borrow a book
// @Description Check a copy out. The checks run in order: membership, borrow limit, availability, duplicate.
// @Tags loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.BorrowRequest true "Borrow request"
// @Success 201 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /loans [post]
func (h *LoanHandler) Borrow(c *gin.Context) {
	callerID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.BorrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	targetID, ok := resolveTargetUser(c, callerID, req.UserID)
	if !ok {
		return
	}

	loanID, err := h.loanUseCase.Borrow(c.Request.Context(), targetID, req.BookID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, commands.ErrBookNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
		case errors.Is(err, commands.ErrMembershipExpired):
			c.JSON(http.StatusForbidden, gin.H{"error": "Membership expired"})
		case errors.Is(err, commands.ErrBorrowLimitReached):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Borrow limit reached"})
		case errors.Is(err, commands.ErrBookUnavailable):
			c.JSON(http.StatusConflict, gin.H{"error": "No copies available"})
		case errors.Is(err, commands.ErrAlreadyBorrowed):
			c.JSON(http.StatusConflict, gin.H{"error": "Book already borrowed by this user"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": loanID.String()})
}

// @Summary Return a book
// @Tags loans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Success 200 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /loans/{id}/return [post]
func (h *LoanHandler) Return(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid loan ID"})
		return
	}

	if err := h.loanUseCase.Return(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, commands.ErrLoanNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Loan not found"})
		case errors.Is(err, commands.ErrAlreadyReturned):
			c.JSON(http.StatusConflict, gin.H{"error": "Loan already returned"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Book returned"})
}

// @Summary Renew a loan
// @Tags loans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Success 200 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /loans/{id}/renew [post]
func (h *LoanHandler) Renew(c *gin.Context) {
	callerID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid loan ID"})
		return
	}

	if err := h.loanUseCase.Renew(c.Request.Context(), id, callerID); err != nil {
		switch {
		case errors.Is(err, commands.ErrLoanNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Loan not found"})
		case errors.Is(err, commands.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "Loan belongs to another user"})
		case errors.Is(err, commands.ErrRenewalNotAllowed):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Renewal not allowed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Loan renewed"})
}

// @Summary Pay fine
// @Tags loans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Success 200 {object} map[string]string
// @Router /loans/{id}/pay-fine [post]
func (h *LoanHandler) PayFine(c *gin.Context) {
	h.settleFine(c, h.loanUseCase.PayFine, "Fine paid")
}

// @Summary Waive fine
// @Tags loans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Success 200 {object} map[string]string
// @Router /loans/{id}/waive-fine [post]
func (h *LoanHandler) WaiveFine(c *gin.Context) {
	h.settleFine(c, h.loanUseCase.WaiveFine, "Fine waived")
}

// @Summary My loans
// @Tags loans
// @Produce json
// @Security BearerAuth
// @Param open query bool false "Only open loans"
// @Success 200 {array} resdto.LoanResponse
// @Router /loans/me [get]
func (h *LoanHandler) MyLoans(c *gin.Context) {
	callerID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var views []*queries.LoanView
	var err error
	if c.Query("open") == "true" {
		views, err = h.loanQueries.ListOpenByUser(c.Request.Context(), callerID)
	} else {
		views, err = h.loanQueries.ListByUser(c.Request.Context(), callerID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, resdto.FromLoanViews(views))
}

// @Summary Get loan
// @Tags loans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Success 200 {object} resdto.LoanResponse
// @Failure 404 {object} map[string]string
// @Router /loans/{id} [get]
func (h *LoanHandler) Get(c *gin.Context) {
	callerID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid loan ID"})
		return
	}

	view, err := h.loanQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Loan not found"})
		return
	}
	role, _ := middleware.GetUserRole(c)
	if view.UserID != callerID && role != user.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Loan belongs to another user"})
		return
	}
	c.JSON(http.StatusOK, resdto.FromLoanView(view))
}

// @Summary List loans by user
// @Tags loans
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {array} resdto.LoanResponse
// @Router /loans/user/{id} [get]
func (h *LoanHandler) ListByUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	views, err := h.loanQueries.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, resdto.FromLoanViews(views))
}

// @Summary List overdue loans
// @Tags loans
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.LoanResponse
// @Router /loans/overdue [get]
func (h *LoanHandler) ListOverdue(c *gin.Context) {
	views, err := h.loanQueries.ListOverdue(c.Request.Context(), h.clock.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, resdto.FromLoanViews(views))
}

// @Summary List loans due soon
// @Tags loans
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.LoanResponse
// @Router /loans/due-soon [get]
func (h *LoanHandler) ListDueSoon(c *gin.Context) {
	now := h.clock.Now()
	views, err := h.loanQueries.ListDueBetween(c.Request.Context(), now, now.Add(3*24*time.Hour))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, resdto.FromLoanViews(views))
}

// @Summary List unpaid fines
// @Tags loans
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.LoanResponse
// @Router /loans/unpaid-fines [get]
func (h *LoanHandler) ListUnpaidFines(c *gin.Context) {
	views, err := h.loanQueries.ListUnpaidFines(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, resdto.FromLoanViews(views))
}

func (h *LoanHandler) settleFine(c *gin.Context, settle func(ctx context.Context, loanID uuid.UUID) error, okMessage string) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid loan ID"})
		return
	}

	if err := settle(c.Request.Context(), id); err != nil {
		if errors.Is(err, commands.ErrLoanNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Loan not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": okMessage})
}

// resolveTargetUser lets an admin act on a member's behalf while members can
// only act on themselves.
func resolveTargetUser(c *gin.Context, callerID, requested uuid.UUID) (uuid.UUID, bool) {
	if requested == uuid.Nil || requested == callerID {
		return callerID, true
	}
	role, _ := middleware.GetUserRole(c)
	if role != user.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot act on another user"})
		return uuid.Nil, false
	}
	return requested, true
}
