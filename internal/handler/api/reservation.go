package api

import (
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

type ReservationHandler struct {
	reservationUseCase commands.ReservationCommands
	reservationQueries queries.ReservationQueries
	clock              clock.Clock
}

func NewReservationHandler(
	reservationUseCase commands.ReservationCommands,
	reservationQueries queries.ReservationQueries,
	clock clock.Clock,
) *ReservationHandler {
	return &ReservationHandler{
		reservationUseCase: reservationUseCase,
		reservationQueries: reservationQueries,
		clock:              clock,
	}
}

// @Summary Reserve a book
// @Description Join the waiting queue for a book with no copies on the shelf
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.ReserveRequest true "Reserve request"
// @Success 201 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /reservations [post]
func (h *ReservationHandler) Reserve(c *gin.Context) {
	callerID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	targetID, ok := resolveTargetUser(c, callerID, req.UserID)
	if !ok {
		return
	}

	reservationID, err := h.reservationUseCase.Reserve(c.Request.Context(), targetID, req.BookID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, commands.ErrBookNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
		case errors.Is(err, commands.ErrMembershipExpired):
			c.JSON(http.StatusForbidden, gin.H{"error": "Membership expired"})
		case errors.Is(err, commands.ErrReservationLimitReached):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Reservation limit reached"})
		case errors.Is(err, commands.ErrAlreadyReserved):
			c.JSON(http.StatusConflict, gin.H{"error": "Book already reserved by this user"})
		case errors.Is(err, commands.ErrBookCurrentlyAvailable):
			c.JSON(http.StatusConflict, gin.H{"error": "Book is currently available; borrow it instead"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": reservationID.String()})
}

// @Summary Cancel reservation
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /reservations/{id} [delete]
func (h *ReservationHandler) Cancel(c *gin.Context) {
	callerID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reservation ID"})
		return
	}

	// Admins cancel on anyone's behalf.
	actorID := callerID
	if role, _ := middleware.GetUserRole(c); role == user.RoleAdmin {
		actorID = uuid.Nil
	}

	if err := h.reservationUseCase.Cancel(c.Request.Context(), id, actorID); err != nil {
		switch {
		case errors.Is(err, commands.ErrReservationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Reservation not found"})
		case errors.Is(err, commands.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "Reservation belongs to another user"})
		case errors.Is(err, commands.ErrReservationClosed):
			c.JSON(http.StatusConflict, gin.H{"error": "Reservation already closed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reservation cancelled"})
}

// @Summary Fulfill reservation
// @Description Record the pickup of a held copy
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /reservations/{id}/fulfill [post]
func (h *ReservationHandler) Fulfill(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reservation ID"})
		return
	}

	if err := h.reservationUseCase.Fulfill(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, commands.ErrReservationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Reservation not found"})
		case errors.Is(err, commands.ErrNotAvailableForPickup):
			c.JSON(http.StatusConflict, gin.H{"error": "Reservation is not available for pickup"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reservation fulfilled"})
}

// @Summary My reservations
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param live query bool false "Only active or available reservations"
// @Success 200 {array} resdto.ReservationResponse
// @Router /reservations/me [get]
func (h *ReservationHandler) MyReservations(c *gin.Context) {
	callerID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var views []*queries.ReservationView
	var err error
	if c.Query("live") == "true" {
		views, err = h.reservationQueries.ListLiveByUser(c.Request.Context(), callerID)
	} else {
		views, err = h.reservationQueries.ListByUser(c.Request.Context(), callerID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationViews(views))
}

// @Summary Get reservation
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 404 {object} map[string]string
// @Router /reservations/{id} [get]
func (h *ReservationHandler) Get(c *gin.Context) {
	callerID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reservation ID"})
		return
	}

	view, err := h.reservationQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reservation not found"})
		return
	}
	role, _ := middleware.GetUserRole(c)
	if view.UserID != callerID && role != user.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Reservation belongs to another user"})
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

// @Summary Book queue
// @Description The active waiting queue for a book, in position order
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Book ID"
// @Success 200 {array} resdto.ReservationResponse
// @Router /reservations/book/{id} [get]
func (h *ReservationHandler) QueueForBook(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid book ID"})
		return
	}

	views, err := h.reservationQueries.QueueForBook(c.Request.Context(), bookID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationViews(views))
}

// @Summary Reservations expiring soon
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.ReservationResponse
// @Router /reservations/expiring [get]
func (h *ReservationHandler) ListExpiring(c *gin.Context) {
	now := h.clock.Now()
	views, err := h.reservationQueries.ListExpiringBetween(c.Request.Context(), now, now.Add(2*24*time.Hour))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationViews(views))
}

// @Summary Reservations awaiting notification
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.ReservationResponse
// @Router /reservations/pending-notification [get]
func (h *ReservationHandler) ListNeedingNotification(c *gin.Context) {
	views, err := h.reservationQueries.ListNeedingNotification(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationViews(views))
}
