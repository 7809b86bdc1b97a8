package domain

import "time"

// Location is a geofenced attendance point. Token is the opaque path segment
// used in the public check-in URL; it routes requests to a location and is not
// an authentication credential.
type Location struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	RadiusMeters float64   `json:"radius_meters"`
	Token        string    `json:"token"`
	OpensAt      string    `json:"opens_at"`
	ClosesAt     string    `json:"closes_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
