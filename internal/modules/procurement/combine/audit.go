package combine

import (
	"time"

	"github.com/google/uuid"
)

const ActionRequestsCombined = "REQUESTS_COMBINED"

type AuditActor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type AuditedRequest struct {
	ID             string  `json:"id"`
	Reference      string  `json:"reference"`
	Title          string  `json:"title"`
	TotalEstimated float64 `json:"total_estimated"`
}

type AuditDetails struct {
	Actor             AuditActor       `json:"actor"`
	OriginalRequests  []AuditedRequest `json:"original_requests"`
	Config            Config           `json:"config"`
	TotalValue        float64          `json:"total_value"`
	TotalItems        int              `json:"total_items"`
	CombinedRequestID string           `json:"combined_request_id,omitempty"`
}

type AuditRecord struct {
	ID        string       `json:"id"`
	Action    string       `json:"action"`
	ActorID   string       `json:"actor_id"`
	ActorName string       `json:"actor_name"`
	Timestamp time.Time    `json:"timestamp"`
	Details   AuditDetails `json:"details"`
}

func GenerateCombineAuditTrail(requests []Request, cfg Config, actorID, actorName string) AuditRecord {
	return GenerateCombineAuditTrailAt(requests, cfg, actorID, actorName, time.Now())
}

func GenerateCombineAuditTrailAt(requests []Request, cfg Config, actorID, actorName string, at time.Time) AuditRecord {
	originals := make([]AuditedRequest, 0, len(requests))
	for _, r := range requests {
		originals = append(originals, AuditedRequest{
			ID:             r.ID,
			Reference:      r.Ref(),
			Title:          r.Title,
			TotalEstimated: r.total(),
		})
	}
	return AuditRecord{
		ID:        uuid.NewString(),
		Action:    ActionRequestsCombined,
		ActorID:   actorID,
		ActorName: actorName,
		Timestamp: at.UTC(),
		Details: AuditDetails{
			Actor:            AuditActor{ID: actorID, Name: actorName},
			OriginalRequests: originals,
			Config:           cfg,
			TotalValue:       totalValue(requests),
			TotalItems:       itemCount(requests),
		},
	}
}
