//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"mesa-reserve/internal/domain/user"
	"mesa-reserve/internal/handler/api"
	resdto "mesa-reserve/internal/handler/dto/response"
	"mesa-reserve/internal/usecase/commands"
	"mesa-reserve/internal/usecase/queries"
	"mesa-reserve/tests/common/builder"
	"mesa-reserve/tests/common/httptest"
	"mesa-reserve/tests/common/testutil"
	commandsmock "mesa-reserve/tests/mock/commands"
	queriesmock "mesa-reserve/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ReservationHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockReservationCommands
	mockQueries  *queriesmock.MockReservationQueries
	handler      *api.ReservationHandler
	userID       uuid.UUID
}

func (s *ReservationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.userID = uuid.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockReservationCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockReservationQueries(s.mockCtrl)
	s.handler = api.NewReservationHandler(s.mockCommands, s.mockQueries)

	// stand-in for RequireAuth
	s.router.Use(func(c *gin.Context) {
		c.Set("user_id", s.userID)
		c.Set("user_role", user.RoleCustomer)
	})

	s.router.POST("/reservations", s.handler.CreateReservation)
	s.router.GET("/reservations", s.handler.ListOwnReservations)
	s.router.GET("/reservations/:id", s.handler.GetReservation)
	s.router.POST("/reservations/:id/cancel", s.handler.CancelReservation)
	s.router.POST("/reservations/:id/clear", s.handler.ClearReservation)
}

func (s *ReservationHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestReservationHandlerSuite(t *testing.T) {
	suite.Run(t, new(ReservationHandlerTestSuite))
}

func (s *ReservationHandlerTestSuite) TestCreateReservation() {
	url := "/reservations"
	b := builder.NewReservationBuilder()
	reqBody := b.BuildDTO()

	s.Run("success: returns 201 Created with the booked reservation", func() {
		view := b.BuildView(uuid.New(), "confirmed")
		s.mockCommands.EXPECT().CreateReservation(gomock.Any(), reqBody, s.userID).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var response resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(view.ID, response.ID)
		s.Equal("confirmed", response.Status)
		s.Equal(b.StartAt, response.StartAt)
	})

	s.Run("error: booking failures map to their status codes", func() {
		cases := []struct {
			name       string
			err        error
			expectCode int
		}{
			{name: "unknown table", err: commands.ErrTableNotFound, expectCode: http.StatusNotFound},
			{name: "slot already reserved", err: commands.ErrSlotTaken, expectCode: http.StatusConflict},
			{name: "table not bookable", err: commands.ErrTableNotBookable, expectCode: http.StatusConflict},
			{name: "reservation limit reached", err: commands.ErrRateLimitExceeded, expectCode: http.StatusTooManyRequests},
			{name: "slot not offered", err: commands.ErrSlotNotOffered, expectCode: http.StatusUnprocessableEntity},
			{name: "outside opening hours", err: commands.ErrOutsideOpeningHours, expectCode: http.StatusUnprocessableEntity},
			{name: "party too large", err: commands.ErrCapacityExceeded, expectCode: http.StatusUnprocessableEntity},
			{name: "invalid reservation data", err: commands.ErrDomainValidation, expectCode: http.StatusBadRequest},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().CreateReservation(gomock.Any(), reqBody, s.userID).
					Return(nil, tc.err).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
				s.Equal(tc.expectCode, rec.Code, "unexpected status for %s: %s", tc.name, rec.Body.String())
			})
		}
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		cases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing table_id", mutate: testutil.Field("table_id", nil)},
			{name: "missing reserved_on", mutate: testutil.Field("reserved_on", nil)},
			{name: "missing start_at", mutate: testutil.Field("start_at", nil)},
			{name: "zero party_size", mutate: testutil.Field("party_size", 0)},
			{name: "missing customer_name", mutate: testutil.Field("customer_name", nil)},
			{name: "invalid customer_email", mutate: testutil.Field("customer_email", "not-an-email")},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				body := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")
				s.Equal(http.StatusBadRequest, rec.Code)
			})
		}
	})
}

func (s *ReservationHandlerTestSuite) TestGetReservation() {
	b := builder.NewReservationBuilder()
	id := uuid.New()
	url := "/reservations/" + id.String()

	s.Run("success: returns the reservation", func() {
		view := b.BuildView(id, "confirmed")
		s.mockQueries.EXPECT().GetByID(gomock.Any(), id, s.userID, user.RoleCustomer).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")

		var response resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(id, response.ID)
	})

	s.Run("error: 404 when hidden or missing", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), id, s.userID, user.RoleCustomer).
			Return(nil, queries.ErrReservationNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Reservation not found")
	})

	s.Run("error: 400 for a malformed id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations/not-a-uuid", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid ID format")
	})
}

func (s *ReservationHandlerTestSuite) TestListOwnReservations() {
	url := "/reservations"
	items := []*queries.ReservationListItem{
		{ID: uuid.New(), TableName: "Mesa 1", ReservedOn: "2025-06-11", StartAt: "18:00", Status: "confirmed"},
	}

	s.Run("success: list carries an ETag and honors If-None-Match", func() {
		s.mockQueries.EXPECT().ListOwn(gomock.Any(), s.userID).
			Return(items, nil).Times(2)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		s.Equal(http.StatusOK, rec.Code)
		etag := rec.Header().Get("ETag")
		s.NotEmpty(etag)

		rec = httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodGet, url, nil, map[string]string{
			"If-None-Match": etag,
		})
		s.Equal(http.StatusNotModified, rec.Code)
		s.Empty(rec.Body.Bytes())
	})
}

func (s *ReservationHandlerTestSuite) TestCancelReservation() {
	id := uuid.New()
	url := "/reservations/" + id.String() + "/cancel"
	actor := commands.Actor{ID: s.userID, Role: user.RoleCustomer}

	s.Run("success: returns 204 No Content", func() {
		s.mockCommands.EXPECT().CancelReservation(gomock.Any(), id, actor).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: transition failures map to their status codes", func() {
		cases := []struct {
			name       string
			err        error
			expectCode int
		}{
			{name: "unknown reservation", err: commands.ErrReservationNotFound, expectCode: http.StatusNotFound},
			{name: "someone else's reservation", err: commands.ErrNotReservationOwner, expectCode: http.StatusForbidden},
			{name: "already cancelled", err: commands.ErrInvalidTransition, expectCode: http.StatusConflict},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().CancelReservation(gomock.Any(), id, actor).
					Return(tc.err).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")
				s.Equal(tc.expectCode, rec.Code)
			})
		}
	})
}

func (s *ReservationHandlerTestSuite) TestClearReservation() {
	id := uuid.New()
	url := "/reservations/" + id.String() + "/clear"

	s.Run("success: returns 204 No Content", func() {
		s.mockCommands.EXPECT().ClearReservation(gomock.Any(), id, s.userID).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 409 while the reservation is still active", func() {
		s.mockCommands.EXPECT().ClearReservation(gomock.Any(), id, s.userID).
			Return(commands.ErrInvalidTransition).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")
		s.Equal(http.StatusConflict, rec.Code)
	})
}
