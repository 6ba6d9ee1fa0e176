package draft

import (
	"time"

	"github.com/Alpha-Auxiliary/fitGenerator/internal/shared/geo"
)

// Draft is the route a user is currently drawing.
type Draft struct {
	ID        string      `json:"id"`
	OwnerID   string      `json:"ownerId"`
	Points    []geo.Point `json:"points"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

type Summary struct {
	DraftID    string  `json:"draftId"`
	PointCount int     `json:"pointCount"`
	DistanceM  float64 `json:"distanceMeters"`
	Closed     bool    `json:"closed"`
	Degenerate bool    `json:"degenerate"`
}
