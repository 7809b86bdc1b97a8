package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateLocationRequest struct {
	Name         string  `json:"name"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters float64 `json:"radius_meters"`
	OpensAt      string  `json:"opens_at"`
	ClosesAt     string  `json:"closes_at"`
}

func (req *CreateLocationRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Latitude, validation.Min(-90.0), validation.Max(90.0)),
		validation.Field(&req.Longitude, validation.Min(-180.0), validation.Max(180.0)),
		validation.Field(&req.RadiusMeters, validation.Required, validation.Min(1.0)),
	)
}

type UpdateLocationRequest struct {
	Name         string  `json:"name"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters float64 `json:"radius_meters"`
}

func (req *UpdateLocationRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Latitude, validation.Min(-90.0), validation.Max(90.0)),
		validation.Field(&req.Longitude, validation.Min(-180.0), validation.Max(180.0)),
		validation.Field(&req.RadiusMeters, validation.Required, validation.Min(1.0)),
	)
}
