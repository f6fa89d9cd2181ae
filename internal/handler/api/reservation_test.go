//go:build unit

package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"library-lending/internal/domain/user"
	"library-lending/internal/handler/api"
	"library-lending/internal/pkg/clock"
	"library-lending/internal/usecase/commands"
	"library-lending/internal/usecase/queries"
	"library-lending/tests/common/builder"
	commandsmock "library-lending/tests/mock/commands"
	queriesmock "library-lending/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ReservationHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockReservationCommands
	mockQueries  *queriesmock.MockReservationQueries
	callerID     uuid.UUID
	callerRole   user.Role
}

func (s *ReservationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockReservationCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockReservationQueries(s.mockCtrl)
	s.callerID = uuid.New()
	s.callerRole = user.RoleMember

	handler := api.NewReservationHandler(s.mockCommands, s.mockQueries, clock.NewMockClock(builder.BaseTime))

	authStub := func(c *gin.Context) {
		c.Set("user_id", s.callerID)
		c.Set("user_role", s.callerRole)
		c.Next()
	}

	s.router.POST("/reservations", authStub, handler.Reserve)
	s.router.DELETE("/reservations/:id", authStub, handler.Cancel)
	s.router.POST("/reservations/:id/fulfill", authStub, handler.Fulfill)
	s.router.GET("/reservations/me", authStub, handler.MyReservations)
	s.router.GET("/reservations/:id", authStub, handler.Get)
}

func (s *ReservationHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestReservationHandlerSuite(t *testing.T) {
	suite.Run(t, new(ReservationHandlerTestSuite))
}

func (s *ReservationHandlerTestSuite) doJSON(method, url string, body any) *httptest.ResponseRecorder {
	raw, err := json.Marshal(body)
	require.NoError(s.T(), err)
	req := httptest.NewRequest(method, url, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *ReservationHandlerTestSuite) TestReserve() {
	s.Run("members reserve for themselves", func() {
		s.SetupTest()
		bookID := uuid.New()
		reservationID := uuid.New()
		s.mockCommands.EXPECT().
			Reserve(gomock.Any(), s.callerID, bookID).
			Return(reservationID, nil)

		w := s.doJSON(http.MethodPost, "/reservations", gin.H{"book_id": bookID})

		assert.Equal(s.T(), http.StatusCreated, w.Code)
		assert.Contains(s.T(), w.Body.String(), reservationID.String())
	})

	s.Run("engine errors map to status codes", func() {
		cases := []struct {
			name string
			err  error
			code int
		}{
			{"membership expired", commands.ErrMembershipExpired, http.StatusForbidden},
			{"reservation cap", commands.ErrReservationLimitReached, http.StatusUnprocessableEntity},
			{"duplicate", commands.ErrAlreadyReserved, http.StatusConflict},
			{"book on the shelf", commands.ErrBookCurrentlyAvailable, http.StatusConflict},
			{"unknown book", commands.ErrBookNotFound, http.StatusNotFound},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.SetupTest()
				s.mockCommands.EXPECT().
					Reserve(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(uuid.Nil, tc.err)

				w := s.doJSON(http.MethodPost, "/reservations", gin.H{"book_id": uuid.New()})
				assert.Equal(s.T(), tc.code, w.Code)
			})
		}
	})
}

func (s *ReservationHandlerTestSuite) TestCancel() {
	s.Run("members cancel as themselves", func() {
		s.SetupTest()
		id := uuid.New()
		s.mockCommands.EXPECT().
			Cancel(gomock.Any(), id, s.callerID).
			Return(nil)

		w := s.doJSON(http.MethodDelete, "/reservations/"+id.String(), nil)
		assert.Equal(s.T(), http.StatusOK, w.Code)
	})

	s.Run("admins cancel with the wildcard actor", func() {
		s.SetupTest()
		s.callerRole = user.RoleAdmin
		id := uuid.New()
		s.mockCommands.EXPECT().
			Cancel(gomock.Any(), id, uuid.Nil).
			Return(nil)

		w := s.doJSON(http.MethodDelete, "/reservations/"+id.String(), nil)
		assert.Equal(s.T(), http.StatusOK, w.Code)
	})

	s.Run("someone else's reservation maps to forbidden", func() {
		s.SetupTest()
		id := uuid.New()
		s.mockCommands.EXPECT().
			Cancel(gomock.Any(), id, s.callerID).
			Return(commands.ErrNotOwner)

		w := s.doJSON(http.MethodDelete, "/reservations/"+id.String(), nil)
		assert.Equal(s.T(), http.StatusForbidden, w.Code)
	})

	s.Run("closed reservation maps to conflict", func() {
		s.SetupTest()
		id := uuid.New()
		s.mockCommands.EXPECT().
			Cancel(gomock.Any(), id, s.callerID).
			Return(commands.ErrReservationClosed)

		w := s.doJSON(http.MethodDelete, "/reservations/"+id.String(), nil)
		assert.Equal(s.T(), http.StatusConflict, w.Code)
	})
}

func (s *ReservationHandlerTestSuite) TestFulfill() {
	s.Run("not held maps to conflict", func() {
		s.SetupTest()
		id := uuid.New()
		s.mockCommands.EXPECT().
			Fulfill(gomock.Any(), id).
			Return(commands.ErrNotAvailableForPickup)

		w := s.doJSON(http.MethodPost, "/reservations/"+id.String()+"/fulfill", nil)
		assert.Equal(s.T(), http.StatusConflict, w.Code)
	})
}

func (s *ReservationHandlerTestSuite) TestGet() {
	s.Run("owners see their reservation", func() {
		s.SetupTest()
		view := &queries.ReservationView{ID: uuid.New(), UserID: s.callerID}
		s.mockQueries.EXPECT().
			GetByID(gomock.Any(), view.ID).
			Return(view, nil)

		req := httptest.NewRequest(http.MethodGet, "/reservations/"+view.ID.String(), nil)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)

		assert.Equal(s.T(), http.StatusOK, w.Code)
	})

	s.Run("members cannot see someone else's reservation", func() {
		s.SetupTest()
		view := &queries.ReservationView{ID: uuid.New(), UserID: uuid.New()}
		s.mockQueries.EXPECT().
			GetByID(gomock.Any(), view.ID).
			Return(view, nil)

		req := httptest.NewRequest(http.MethodGet, "/reservations/"+view.ID.String(), nil)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)

		assert.Equal(s.T(), http.StatusForbidden, w.Code)
	})
}

func (s *ReservationHandlerTestSuite) TestMyReservations() {
	s.Run("live filter uses the live listing", func() {
		s.SetupTest()
		s.mockQueries.EXPECT().
			ListLiveByUser(gomock.Any(), s.callerID).
			Return([]*queries.ReservationView{}, nil)

		req := httptest.NewRequest(http.MethodGet, "/reservations/me?live=true", nil)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)

		assert.Equal(s.T(), http.StatusOK, w.Code)
	})
}
