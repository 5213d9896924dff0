package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/procurement-backend/internal/http/response"
	"github.com/yungbote/procurement-backend/internal/modules/procurement/splintering"
	"github.com/yungbote/procurement-backend/internal/services"
)

const maxBatchSize = 100

type SplinteringHandler struct {
	svc services.SplinteringService
}

func NewSplinteringHandler(svc services.SplinteringService) *SplinteringHandler {
	return &SplinteringHandler{svc: svc}
}

type checkBatchRequest struct {
	Requests []splintering.Snapshot `json:"requests"`
}

// POST /api/splintering/check
func (h *SplinteringHandler) Check(c *gin.Context) {
	var req splintering.Snapshot
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}
	alerts, err := h.svc.Check(c.Request.Context(), req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"alerts":           alerts,
		"block_submission": blocks(alerts),
	})
}

// POST /api/splintering/check-batch
func (h *SplinteringHandler) CheckBatch(c *gin.Context) {
	var req checkBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}
	if len(req.Requests) > maxBatchSize {
		response.RespondError(c, http.StatusBadRequest, "batch_too_large", errBatchTooLarge)
		return
	}
	results, err := h.svc.CheckBatch(c.Request.Context(), req.Requests)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"results": results})
}

// GET /api/splintering/rules
func (h *SplinteringHandler) ListRules(c *gin.Context) {
	rules, err := h.svc.ListRules(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"rules": rules})
}

// PATCH /api/splintering/rules/:id
func (h *SplinteringHandler) UpdateRule(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	var patch services.RulePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}
	rule, err := h.svc.UpdateRule(c.Request.Context(), id, patch)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"rule": rule})
}

func blocks(alerts []splintering.Alert) bool {
	for _, a := range alerts {
		if a.BlockSubmission {
			return true
		}
	}
	return false
}
