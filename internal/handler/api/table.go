package api

import (
	"errors"
	"net/http"

	reqdto "mesa-reserve/internal/handler/dto/request"
	resdto "mesa-reserve/internal/handler/dto/response"
	"mesa-reserve/internal/handler/httperr"
	"mesa-reserve/internal/usecase/commands"
	"mesa-reserve/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type TableHandler struct {
	tableCommands       commands.TableCommands
	maintenanceCommands commands.MaintenanceCommands
	tableQueries        queries.TableQueries
	availability        queries.AvailabilityQueries
}

func NewTableHandler(
	tableCommands commands.TableCommands,
	maintenanceCommands commands.MaintenanceCommands,
	tableQueries queries.TableQueries,
	availability queries.AvailabilityQueries,
) *TableHandler {
	return &TableHandler{
		tableCommands:       tableCommands,
		maintenanceCommands: maintenanceCommands,
		tableQueries:        tableQueries,
		availability:        availability,
	}
}

// @Summary List tables
// @Description List every table with its calendar
// @Tags tables
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.TableResponse
// @Failure 401 {object} map[string]string
// @Router /tables [get]
func (h *TableHandler) ListTables(c *gin.Context) {
	views, err := h.tableQueries.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, resdto.FromTableList(views))
}

// @Summary Get table
// @Description Get a table by ID
// @Tags tables
// @Produce json
// @Security BearerAuth
// @Param id path string true "Table ID"
// @Success 200 {object} resdto.TableResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /tables/{id} [get]
func (h *TableHandler) GetTable(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	view, err := h.tableQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, queries.ErrTableNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Table not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, resdto.FromTableView(view))
}

// @Summary Available dates
// @Description Dates on which the table still has at least one open slot
// @Tags availability
// @Produce json
// @Security BearerAuth
// @Param id path string true "Table ID"
// @Success 200 {object} resdto.AvailableDatesResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /tables/{id}/available-dates [get]
func (h *TableHandler) AvailableDates(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	dates, err := h.availability.AvailableDates(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, queries.ErrTableNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Table not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.AvailableDatesResponse{TableID: id, Dates: dates})
}

// @Summary Open slots
// @Description Offered starts on a date, annotated with reserved state
// @Tags availability
// @Produce json
// @Security BearerAuth
// @Param id path string true "Table ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} resdto.OpenSlotsResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /tables/{id}/slots [get]
func (h *TableHandler) OpenSlots(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	date := c.Query("date")
	slots, err := h.availability.OpenSlots(c.Request.Context(), id, date)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrTableNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Table not found",
			})
		case errors.Is(err, queries.ErrInvalidDate):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid date format",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromOpenSlots(id, date, slots))
}

// @Summary Reschedule candidates
// @Description Tables a reservation could move to during maintenance
// @Tags tables
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {array} resdto.TableResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/reservations/{id}/candidates [get]
func (h *TableHandler) RescheduleCandidates(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	views, err := h.tableQueries.RescheduleCandidates(c.Request.Context(), id)
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
	c.JSON(http.StatusOK, resdto.FromTableList(views))
}

// @Summary Create table
// @Description Create a table with its availability calendar
// @Tags tables
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateTableRequest true "Table request"
// @Success 201 {object} resdto.TableResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/tables [post]
func (h *TableHandler) CreateTable(c *gin.Context) {
	var req reqdto.CreateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.tableCommands.CreateTable(c.Request.Context(), req)
	if err != nil {
		h.respondTableError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromTableView(view))
}

// @Summary Update table
// @Description Replace a table's name, capacity, and calendar
// @Tags tables
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Table ID"
// @Param request body reqdto.UpdateTableRequest true "Table request"
// @Success 200 {object} resdto.TableResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/tables/{id} [put]
func (h *TableHandler) UpdateTable(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req reqdto.UpdateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.tableCommands.UpdateTable(c.Request.Context(), id, req)
	if err != nil {
		h.respondTableError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromTableView(view))
}

// @Summary Delete table
// @Description Delete a table with no active reservations
// @Tags tables
// @Security BearerAuth
// @Param id path string true "Table ID"
// @Success 204 "No Content"
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/tables/{id} [delete]
func (h *TableHandler) DeleteTable(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.tableCommands.DeleteTable(c.Request.Context(), id); err != nil {
		if errors.Is(err, commands.ErrTableHasActiveBookings) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "Table still has active reservations",
			})
			return
		}
		h.respondTableError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Schedule maintenance
// @Description Disposition every active reservation and flip the table to maintenance
// @Tags maintenance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Table ID"
// @Param request body reqdto.MaintenanceRequest true "Dispositions"
// @Success 200 {object} resdto.MaintenanceResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /admin/tables/{id}/maintenance [post]
func (h *TableHandler) ScheduleMaintenance(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req reqdto.MaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}
	if req.CancelAll && len(req.Dispositions) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "cancel_all cannot be combined with dispositions",
		})
		return
	}

	result, err := h.maintenanceCommands.ScheduleMaintenance(c.Request.Context(), id, req)
	if err != nil {
		var report *commands.DispositionReport
		switch {
		case errors.As(err, &report):
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Dispositions rejected", report.Failures)
		case errors.Is(err, commands.ErrTableNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Table not found",
			})
		case errors.Is(err, commands.ErrTableAlreadyMaintenance):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Table is already under maintenance",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromMaintenanceResult(result))
}

// @Summary End maintenance
// @Description Return a table to the bookable pool
// @Tags maintenance
// @Security BearerAuth
// @Param id path string true "Table ID"
// @Success 204 "No Content"
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/tables/{id}/maintenance [delete]
func (h *TableHandler) EndMaintenance(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.maintenanceCommands.EndMaintenance(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, commands.ErrTableNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Table not found",
			})
		case errors.Is(err, commands.ErrTableNotMaintenance):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Table is not under maintenance",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TableHandler) respondTableError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrTableNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Table not found",
		})
	case errors.Is(err, commands.ErrTableNameTaken):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Table name already in use",
		})
	case errors.Is(err, commands.ErrDomainValidation):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid table data",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
