package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/procurement-backend/internal/http/response"
	"github.com/yungbote/procurement-backend/internal/services"
)

type ThresholdHandler struct {
	svc services.SplinteringService
}

func NewThresholdHandler(svc services.SplinteringService) *ThresholdHandler {
	return &ThresholdHandler{svc: svc}
}

type executiveThresholdRequest struct {
	Amount     any      `json:"amount"`
	Categories []string `json:"categories"`
	Currency   string   `json:"currency"`
}

// POST /api/thresholds/executive
func (h *ThresholdHandler) Executive(c *gin.Context) {
	var req executiveThresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}
	alert := h.svc.CheckExecutiveThreshold(c.Request.Context(), req.Amount, req.Categories, req.Currency)
	response.RespondOK(c, gin.H{"alert": alert})
}
