package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/procurement-backend/internal/http/response"
	"github.com/yungbote/procurement-backend/internal/modules/procurement/combine"
	"github.com/yungbote/procurement-backend/internal/services"
)

type CombineHandler struct {
	svc services.CombineService
}

func NewCombineHandler(svc services.CombineService) *CombineHandler {
	return &CombineHandler{svc: svc}
}

type combineRequest struct {
	RequestIDs []uuid.UUID     `json:"request_ids"`
	Config     *combine.Config `json:"config"`
}

func (r combineRequest) config() combine.Config {
	if r.Config == nil {
		return combine.Config{IncludeOriginalReferences: true, ConsolidateItems: true}
	}
	return *r.Config
}

func bindCombine(c *gin.Context) (combineRequest, bool) {
	var req combineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return req, false
	}
	if len(req.RequestIDs) == 0 {
		response.RespondError(c, http.StatusBadRequest, "missing_request_ids", errNoRequestIDs)
		return req, false
	}
	return req, true
}

// POST /api/requests/combine/validate
func (h *CombineHandler) Validate(c *gin.Context) {
	req, ok := bindCombine(c)
	if !ok {
		return
	}
	res, err := h.svc.Validate(c.Request.Context(), req.RequestIDs)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, res)
}

// POST /api/requests/combine/preview
func (h *CombineHandler) Preview(c *gin.Context) {
	req, ok := bindCombine(c)
	if !ok {
		return
	}
	res, err := h.svc.Preview(c.Request.Context(), req.RequestIDs, req.config())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, res)
}

// POST /api/requests/combine
func (h *CombineHandler) Combine(c *gin.Context) {
	req, ok := bindCombine(c)
	if !ok {
		return
	}
	res, err := h.svc.Combine(c.Request.Context(), req.RequestIDs, req.config())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, res)
}
