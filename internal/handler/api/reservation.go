package api

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"mesa-reserve/internal/domain/user"
	reqdto "mesa-reserve/internal/handler/dto/request"
	resdto "mesa-reserve/internal/handler/dto/response"
	"mesa-reserve/internal/handler/middleware"
	"mesa-reserve/internal/usecase/commands"
	"mesa-reserve/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReservationHandler struct {
	reservationCommands commands.ReservationCommands
	reservationQueries  queries.ReservationQueries
}

func NewReservationHandler(
	reservationCommands commands.ReservationCommands,
	reservationQueries queries.ReservationQueries,
) *ReservationHandler {
	return &ReservationHandler{
		reservationCommands: reservationCommands,
		reservationQueries:  reservationQueries,
	}
}

// @Summary Create reservation
// @Description Book a slot on a table
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateReservationRequest true "Reservation request"
// @Success 201 {object} resdto.ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Failure 429 {object} map[string]string
// @Router /reservations [post]
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.CreateReservationRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.reservationCommands.CreateReservation(c.Request.Context(), req, userID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrTableNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Table not found",
			})
		case errors.Is(err, commands.ErrSlotTaken):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Slot is already reserved",
			})
		case errors.Is(err, commands.ErrRateLimitExceeded):
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Reservation limit reached, try again later",
			})
		case errors.Is(err, commands.ErrTableNotBookable):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Table is not currently bookable",
			})
		case errors.Is(err, commands.ErrSlotNotOffered):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Table does not offer this slot",
			})
		case errors.Is(err, commands.ErrOutsideOpeningHours):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Slot is outside opening hours",
			})
		case errors.Is(err, commands.ErrCapacityExceeded):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Party size exceeds table capacity",
			})
		case errors.Is(err, commands.ErrDomainValidation):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid reservation data",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromReservationView(view))
}

// @Summary Get reservation
// @Description Get reservation by ID; customers only see their own
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Success 304 "Not Modified"
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /reservations/{id} [get]
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	requesterID, role, ok := requireActor(c)
	if !ok {
		return
	}

	view, err := h.reservationQueries.GetByID(c.Request.Context(), id, requesterID, role)
	if err != nil {
		if errors.Is(err, queries.ErrReservationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Reservation not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	respondWithETag(c, resdto.FromReservationView(view))
}

// @Summary List own reservations
// @Description List the current user's reservations, cleared ones omitted
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.ReservationListResponse
// @Success 304 "Not Modified"
// @Failure 401 {object} map[string]string
// @Router /reservations [get]
func (h *ReservationHandler) ListOwnReservations(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	items, err := h.reservationQueries.ListOwn(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	respondWithETag(c, resdto.FromReservationList(items))
}

// @Summary List all reservations
// @Description List every reservation, for the admin dashboard
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.ReservationListResponse
// @Success 304 "Not Modified"
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /admin/reservations [get]
func (h *ReservationHandler) ListAllReservations(c *gin.Context) {
	items, err := h.reservationQueries.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	respondWithETag(c, resdto.FromReservationList(items))
}

// @Summary Confirm reservation
// @Description Promote a pending reservation to confirmed
// @Tags reservations
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/reservations/{id}/confirm [post]
func (h *ReservationHandler) ConfirmReservation(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.reservationCommands.ConfirmReservation(c.Request.Context(), id); err != nil {
		h.respondTransitionError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Cancel reservation
// @Description Cancel a pending or confirmed reservation
// @Tags reservations
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /reservations/{id}/cancel [post]
func (h *ReservationHandler) CancelReservation(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	requesterID, role, ok := requireActor(c)
	if !ok {
		return
	}

	actor := commands.Actor{ID: requesterID, Role: role}
	if err := h.reservationCommands.CancelReservation(c.Request.Context(), id, actor); err != nil {
		h.respondTransitionError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Clear reservation
// @Description Remove a cancelled reservation from the user's own listing
// @Tags reservations
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /reservations/{id}/clear [post]
func (h *ReservationHandler) ClearReservation(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	if err := h.reservationCommands.ClearReservation(c.Request.Context(), id, userID); err != nil {
		h.respondTransitionError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Delete reservation
// @Description Permanently remove a reservation
// @Tags reservations
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/reservations/{id} [delete]
func (h *ReservationHandler) DeleteReservation(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.reservationCommands.DeleteReservation(c.Request.Context(), id); err != nil {
		h.respondTransitionError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ReservationHandler) respondTransitionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrReservationNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Reservation not found",
		})
	case errors.Is(err, commands.ErrNotReservationOwner):
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Reservation belongs to another user",
		})
	case errors.Is(err, commands.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Reservation state does not allow this operation",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}

func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid ID format",
		})
		return uuid.Nil, false
	}
	return id, true
}

func requireActor(c *gin.Context) (uuid.UUID, user.Role, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return uuid.Nil, "", false
	}
	role, ok := middleware.GetUserRole(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return uuid.Nil, "", false
	}
	return userID, role, true
}

// respondWithETag hashes the encoded body so unchanged lists can be answered
// with 304 against If-None-Match.
func respondWithETag(c *gin.Context, body any) {
	raw, err := json.Marshal(body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	sum := sha256.Sum256(raw)
	etag := `"` + hex.EncodeToString(sum[:8]) + `"`

	if c.GetHeader("If-None-Match") == etag {
		c.Header("ETag", etag)
		c.Status(http.StatusNotModified)
		return
	}

	c.Header("ETag", etag)
	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}
