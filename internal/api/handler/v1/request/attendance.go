package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CheckInRequest struct {
	Identifier string  `json:"identifier"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	MiddleName string  `json:"middle_name"`
	StateCode  string  `json:"state_code"`
	Batch      int     `json:"batch"`
	CDS        int     `json:"cds"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

func (req *CheckInRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Identifier, validation.Required, validation.Length(1, 25)),
		validation.Field(&req.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.MiddleName, validation.Length(0, 100)),
		validation.Field(&req.StateCode, validation.Required, validation.Length(1, 20)),
		validation.Field(&req.Batch, validation.Min(0), validation.Max(6)),
		validation.Field(&req.CDS, validation.Required, validation.Min(1), validation.Max(11)),
	)
}

type ReserveSpotRequest struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	MiddleName string `json:"middle_name"`
	StateCode  string `json:"state_code"`
	Batch      int    `json:"batch"`
	CDS        int    `json:"cds"`
}

func (req *ReserveSpotRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.MiddleName, validation.Length(0, 100)),
		validation.Field(&req.StateCode, validation.Required, validation.Length(1, 20)),
		validation.Field(&req.Batch, validation.Min(0), validation.Max(6)),
		validation.Field(&req.CDS, validation.Required, validation.Min(1), validation.Max(11)),
	)
}
