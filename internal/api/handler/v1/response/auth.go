package response

import (
	"time"

	"github.com/lasoiree/venue-api/internal/domain"
)

type LoginResponse struct {
	Token     string      `json:"token"`
	Role      domain.Role `json:"role"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      domain.User `json:"user"`
}
