package api

import (
	"errors"
	"net/http"
	"strconv"

	"library-lending/internal/domain/book"
	reqdto "library-lending/internal/handler/dto/request"
	resdto "library-lending/internal/handler/dto/response"
	"library-lending/internal/usecase/commands"
	"library-lending/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookHandler struct {
	bookUseCase commands.BookCommands
	bookQueries queries.BookQueries
}

func NewBookHandler(bookUseCase commands.BookCommands, bookQueries queries.BookQueries) *BookHandler {
	return &BookHandler{
		bookUseCase: bookUseCase,
		bookQueries: bookQueries,
	}
}

// @Summary List books
// @Description List the catalog, optionally filtered by search term, category or availability
// @Tags books
// @Produce json
// @Param q query string false "Search term (title, author or ISBN)"
// @Param category query string false "Category filter"
// @Param available query bool false "Only titles with copies on the shelf"
// @Success 200 {array} resdto.BookResponse
// @Router /books [get]
func (h *BookHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var views []*queries.BookView
	var err error
	switch {
	case c.Query("q") != "":
		views, err = h.bookQueries.Search(ctx, c.Query("q"))
	case c.Query("category") != "":
		views, err = h.bookQueries.ListByCategory(ctx, c.Query("category"))
	case c.Query("available") == "true":
		views, err = h.bookQueries.ListAvailable(ctx)
	default:
		views, err = h.bookQueries.List(ctx)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookViews(views))
}

// @Summary Get book
// @Tags books
// @Produce json
// @Param id path string true "Book ID"
// @Success 200 {object} resdto.BookResponse
// @Failure 404 {object} map[string]string
// @Router /books/{id} [get]
func (h *BookHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid book ID"})
		return
	}

	view, err := h.bookQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookView(view))
}

// @Summary List categories
// @Tags books
// @Produce json
// @Success 200 {array} string
// @Router /books/categories [get]
func (h *BookHandler) Categories(c *gin.Context) {
	values, err := h.bookQueries.Categories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, values)
}

// @Summary List authors
// @Tags books
// @Produce json
// @Success 200 {array} string
// @Router /books/authors [get]
func (h *BookHandler) Authors(c *gin.Context) {
	values, err := h.bookQueries.Authors(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, values)
}

// @Summary List low-availability books
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param threshold query int false "Copies-on-shelf threshold" default(1)
// @Success 200 {array} resdto.BookResponse
// @Router /books/low-availability [get]
func (h *BookHandler) LowAvailability(c *gin.Context) {
	threshold := 1
	if raw := c.Query("threshold"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid threshold"})
			return
		}
		threshold = parsed
	}

	views, err := h.bookQueries.ListLowAvailability(c.Request.Context(), threshold)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookViews(views))
}

// @Summary Create book
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateBookRequest true "Book"
// @Success 201 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /books [post]
func (h *BookHandler) Create(c *gin.Context) {
	var req reqdto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	id, err := h.bookUseCase.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrDuplicateISBN):
			c.JSON(http.StatusConflict, gin.H{"error": "ISBN already registered"})
		case errors.Is(err, book.ErrInvalidISBN),
			errors.Is(err, book.ErrInvalidTitle),
			errors.Is(err, book.ErrInvalidCopyCount):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id.String()})
}

// @Summary Update book
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Book ID"
// @Param request body reqdto.UpdateBookRequest true "Book"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /books/{id} [put]
func (h *BookHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid book ID"})
		return
	}

	var req reqdto.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.bookUseCase.Update(c.Request.Context(), id, req.ToInput()); err != nil {
		h.respondBookError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Book updated"})
}

// @Summary Delete book
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param id path string true "Book ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /books/{id} [delete]
func (h *BookHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid book ID"})
		return
	}

	if err := h.bookUseCase.Delete(c.Request.Context(), id); err != nil {
		h.respondBookError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Book deleted"})
}

// @Summary Resize inventory
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Book ID"
// @Param request body reqdto.SetCopiesRequest true "Copy counts"
// @Success 200 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /books/{id}/copies [put]
func (h *BookHandler) SetCopies(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid book ID"})
		return
	}

	var req reqdto.SetCopiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.bookUseCase.SetCopies(c.Request.Context(), id, req.TotalCopies, req.AvailableCopies); err != nil {
		if errors.Is(err, book.ErrCopiesExceedTotal) || errors.Is(err, book.ErrInvalidCopyCount) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		h.respondBookError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Inventory updated"})
}

// @Summary Set book status
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Book ID"
// @Param request body reqdto.SetStatusRequest true "Status"
// @Success 200 {object} map[string]string
// @Router /books/{id}/status [put]
func (h *BookHandler) SetStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid book ID"})
		return
	}

	var req reqdto.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.bookUseCase.SetStatus(c.Request.Context(), id, book.Status(req.Status)); err != nil {
		if errors.Is(err, book.ErrInvalidStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid book status"})
			return
		}
		h.respondBookError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Status updated"})
}

func (h *BookHandler) respondBookError(c *gin.Context, err error) {
	if errors.Is(err, commands.ErrBookNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
