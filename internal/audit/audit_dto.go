package audit

import (
	"encoding/json"
	"time"
)

// Entry is what callers hand to the recorder. Actor and client details
// are taken from the request context.
type Entry struct {
	Action   string
	TargetID string
	Details  any
}

type ListFilter struct {
	ActorID  string `form:"actor_id" binding:"omitempty,uuid"`
	Action   string `form:"action"`
	TargetID string `form:"target_id"`
	From     string `form:"from" binding:"omitempty,date_only"`
	To       string `form:"to" binding:"omitempty,date_only"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

type AuditLogResponse struct {
	ID        string          `json:"id"`
	ActorID   *string         `json:"actor_id"`
	Action    string          `json:"action"`
	TargetID  *string         `json:"target_id,omitempty"`
	Details   json.RawMessage `json:"details,omitempty"`
	IPAddress string          `json:"ip_address,omitempty"`
	UserAgent string          `json:"user_agent,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
	CreatedAt string          `json:"created_at"`
}

func mapToResponse(a AuditLog) AuditLogResponse {
	resp := AuditLogResponse{
		ID:        a.ID.String(),
		Action:    a.Action,
		TargetID:  a.TargetID,
		IPAddress: a.IPAddress,
		UserAgent: a.UserAgent,
		RequestID: a.RequestID,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
	if a.ActorID != nil {
		v := a.ActorID.String()
		resp.ActorID = &v
	}
	if len(a.Details) > 0 {
		resp.Details = json.RawMessage(a.Details)
	}
	return resp
}
