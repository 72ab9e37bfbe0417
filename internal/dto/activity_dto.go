package dto

import (
	"time"

	"github.com/shipai-tjc/logbook-api/internal/models"
)

// ActivityCreateRequest records an explicit audit entry.
type ActivityCreateRequest struct {
	Action     string                 `json:"action" validate:"required,max=64"`
	EntityType string                 `json:"entity_type" validate:"required,max=64"`
	EntityID   *uint                  `json:"entity_id"`
	Metadata   map[string]interface{} `json:"metadata"`
}

// ActivityListRequest pages and filters the operation log.
type ActivityListRequest struct {
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	ActorID    uint   `json:"actor_id"`
	Action     string `json:"action"`
	EntityType string `json:"entity_type"`
}

// ActivityResponse is the API shape of one operation-log entry.
type ActivityResponse struct {
	ID         uint                   `json:"id"`
	ActorID    uint                   `json:"actor_id"`
	ActorRole  string                 `json:"actor_role"`
	Action     string                 `json:"action"`
	EntityType string                 `json:"entity_type"`
	EntityID   *uint                  `json:"entity_id"`
	Metadata   map[string]interface{} `json:"metadata"`
	CreatedAt  time.Time              `json:"created_at"`
}

// PaginationMeta describes a paged listing.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// ActivityListResponse is a page of operation-log entries.
type ActivityListResponse struct {
	Items      []ActivityResponse `json:"items"`
	Pagination PaginationMeta     `json:"pagination"`
}

// NewActivityResponse maps an activity log model to its API shape.
func NewActivityResponse(entry models.ActivityLog) ActivityResponse {
	metadata := map[string]interface{}{}
	for key, value := range entry.Metadata {
		metadata[key] = value
	}

	return ActivityResponse{
		ID:         entry.ID,
		ActorID:    entry.ActorID,
		ActorRole:  entry.ActorRole,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Metadata:   metadata,
		CreatedAt:  entry.CreatedAt,
	}
}
