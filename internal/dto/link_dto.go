package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateLinkResponse struct {
	LinkId       uuid.UUID `json:"link_id"`
	CreatorToken uuid.UUID `json:"creator_token"`
}

type ShowLinkResponse struct {
	Id        uuid.UUID  `json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at"` // nil when links are unbounded
}

type VerifyLinkResponse struct {
	Exists bool `json:"exists"`
}
