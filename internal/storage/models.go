package storage

import "time"

// Export is an archived generated file. Data is only loaded for downloads.
type Export struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"ownerId"`
	VariantIndex int       `json:"variantIndex"`
	Format       string    `json:"format"`
	FileName     string    `json:"fileName"`
	DistanceM    float64   `json:"totalDistanceMeters"`
	DurationSec  float64   `json:"totalDurationSec"`
	Data         []byte    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
