package domain

import "github.com/yungbote/procurement-backend/internal/domain/procurement"

const (
	StatusDraft           = procurement.StatusDraft
	StatusSubmitted       = procurement.StatusSubmitted
	StatusPendingApproval = procurement.StatusPendingApproval
	StatusApproved        = procurement.StatusApproved
	StatusRejected        = procurement.StatusRejected
	StatusSentToVendor    = procurement.StatusSentToVendor
	StatusClosed          = procurement.StatusClosed
	StatusCombined        = procurement.StatusCombined

	AuditActionRequestsCombined = procurement.AuditActionRequestsCombined
)

type ProcurementRequest = procurement.ProcurementRequest
type RequestItem = procurement.RequestItem
type SplinteringRule = procurement.SplinteringRule
type AuditEvent = procurement.AuditEvent
