package api

import (
	"errors"
	"net/http"

	reqdto "mesa-reserve/internal/handler/dto/request"
	resdto "mesa-reserve/internal/handler/dto/response"
	"mesa-reserve/internal/usecase/commands"
	"mesa-reserve/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type RulesHandler struct {
	rulesCommands commands.RulesCommands
	rulesQueries  queries.RulesQueries
}

func NewRulesHandler(rulesCommands commands.RulesCommands, rulesQueries queries.RulesQueries) *RulesHandler {
	return &RulesHandler{
		rulesCommands: rulesCommands,
		rulesQueries:  rulesQueries,
	}
}

// @Summary Get booking rules
// @Description Current opening hours, auto-confirm delay, and rate limit
// @Tags rules
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.RulesResponse
// @Failure 401 {object} map[string]string
// @Router /rules [get]
func (h *RulesHandler) GetRules(c *gin.Context) {
	view, err := h.rulesQueries.Get(c.Request.Context())
	if err != nil {
		if errors.Is(err, queries.ErrRulesNotSeeded) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Booking rules not configured",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, resdto.FromRulesView(view))
}

// @Summary Update booking rules
// @Description Replace the booking rules singleton
// @Tags rules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.UpdateRulesRequest true "Rules request"
// @Success 200 {object} resdto.RulesResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /admin/rules [put]
func (h *RulesHandler) UpdateRules(c *gin.Context) {
	var req reqdto.UpdateRulesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	if err := h.rulesCommands.UpdateRules(c.Request.Context(), req); err != nil {
		if errors.Is(err, commands.ErrDomainValidation) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid booking rules",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	view, err := h.rulesQueries.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, resdto.FromRulesView(view))
}
