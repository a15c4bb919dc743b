package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/unaytac-cmd/printnest-sub000/internal/gangsheet"
	"github.com/unaytac-cmd/printnest-sub000/internal/http/middleware"
	"github.com/unaytac-cmd/printnest-sub000/internal/http/response"
)

type GangsheetHandler struct {
	sheets gangsheet.Service
}

func NewGangsheetHandler(sheets gangsheet.Service) *GangsheetHandler {
	return &GangsheetHandler{sheets: sheets}
}

type generateRequest struct {
	Name              string                      `json:"name"`
	OrderIDs          []uuid.UUID                 `json:"order_ids"`
	QuantityOverrides map[string]int              `json:"quantity_overrides,omitempty"`
	Settings          *gangsheet.SettingsOverride `json:"settings,omitempty"`
}

// POST /api/gangsheets
func (h *GangsheetHandler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}

	overrides := make(map[uuid.UUID]int, len(req.QuantityOverrides))
	for k, v := range req.QuantityOverrides {
		id, err := uuid.Parse(k)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_quantity_override", err)
			return
		}
		overrides[id] = v
	}

	g, err := h.sheets.Generate(c.Request.Context(), middleware.TenantID(c), gangsheet.GenerateInput{
		Name:              req.Name,
		OrderIDs:          req.OrderIDs,
		QuantityOverrides: overrides,
		Settings:          req.Settings,
	})
	if err != nil {
		if errors.Is(err, gangsheet.ErrEmptyOrderSelection) {
			response.RespondError(c, http.StatusBadRequest, "empty_order_selection", err)
			return
		}
		response.RespondError(c, http.StatusInternalServerError, "generate_failed", err)
		return
	}
	response.RespondAccepted(c, gin.H{"gangsheet": g})
}

// GET /api/gangsheets
func (h *GangsheetHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	sheets, err := h.sheets.List(c.Request.Context(), middleware.TenantID(c), limit)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "list_gangsheets_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"gangsheets": sheets})
}

// GET /api/gangsheets/:id
func (h *GangsheetHandler) GetStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_gangsheet_id", err)
		return
	}
	g, err := h.sheets.GetStatus(c.Request.Context(), middleware.TenantID(c), id)
	if err != nil {
		if errors.Is(err, gangsheet.ErrGangsheetNotFound) {
			response.RespondError(c, http.StatusNotFound, "gangsheet_not_found", err)
			return
		}
		response.RespondError(c, http.StatusInternalServerError, "get_gangsheet_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"gangsheet": g})
}

// POST /api/gangsheets/:id/cancel
func (h *GangsheetHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_gangsheet_id", err)
		return
	}
	g, err := h.sheets.Cancel(c.Request.Context(), middleware.TenantID(c), id)
	if err != nil {
		if errors.Is(err, gangsheet.ErrGangsheetNotFound) {
			response.RespondError(c, http.StatusNotFound, "gangsheet_not_found", err)
			return
		}
		response.RespondError(c, http.StatusInternalServerError, "cancel_gangsheet_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"gangsheet": g})
}

// DELETE /api/gangsheets/:id
func (h *GangsheetHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_gangsheet_id", err)
		return
	}
	if err := h.sheets.Delete(c.Request.Context(), middleware.TenantID(c), id); err != nil {
		if errors.Is(err, gangsheet.ErrGangsheetNotFound) {
			response.RespondError(c, http.StatusNotFound, "gangsheet_not_found", err)
			return
		}
		response.RespondError(c, http.StatusInternalServerError, "delete_gangsheet_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": true})
}
