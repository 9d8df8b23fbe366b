package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/vietanh2810/festival-api/internal/domain"
)

type CreatePerformanceRequest struct {
	Name                      string                   `json:"name"`
	Description               string                   `json:"description"`
	Genre                     string                   `json:"genre"`
	Duration                  int                      `json:"duration"`
	BandMembers               []string                 `json:"band_members"`
	TechnicalRequirement      string                   `json:"technical_requirement"`
	Setlist                   []string                 `json:"setlist"`
	MerchandiseItems          []domain.MerchandiseItem `json:"merchandise_items"`
	PreferredRehearsalTimes   []string                 `json:"preferred_rehearsal_times"`
	PreferredPerformanceSlots []string                 `json:"preferred_performance_slots"`
}

func (req *CreatePerformanceRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Description, validation.Required, validation.Length(1, 2000)),
		validation.Field(&req.Genre, validation.Required, validation.Length(1, 50)),
		validation.Field(&req.Duration, validation.Required, validation.Min(1)),
		validation.Field(&req.BandMembers, validation.Required),
	)
}

type UpdatePerformanceRequest struct {
	Name                      *string                  `json:"name"`
	Description               *string                  `json:"description"`
	Genre                     *string                  `json:"genre"`
	Duration                  *int                     `json:"duration"`
	BandMembers               []string                 `json:"band_members"`
	TechnicalRequirement      *string                  `json:"technical_requirement"`
	Setlist                   []string                 `json:"setlist"`
	MerchandiseItems          []domain.MerchandiseItem `json:"merchandise_items"`
	PreferredRehearsalTimes   []string                 `json:"preferred_rehearsal_times"`
	PreferredPerformanceSlots []string                 `json:"preferred_performance_slots"`
}

func (req *UpdatePerformanceRequest) Validate() error {
	if req.Name != nil {
		if err := validation.Validate(*req.Name, validation.Required, validation.Length(2, 100)); err != nil {
			return err
		}
	}
	if req.Duration != nil {
		if err := validation.Validate(*req.Duration, validation.Min(1)); err != nil {
			return err
		}
	}

	return nil
}

type AddBandMemberRequest struct {
	Username string `json:"username"`
}

func (req *AddBandMemberRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Username, validation.Required),
	)
}

type AssignStageManagerRequest struct {
	Username string `json:"username"`
}

func (req *AssignStageManagerRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Username, validation.Required),
	)
}

type ReviewPerformanceRequest struct {
	Score    *float64 `json:"score"`
	Comments string   `json:"comments"`
}

func (req *ReviewPerformanceRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Score, validation.NotNil),
		validation.Field(&req.Comments, validation.Required, validation.Length(1, 2000)),
	)
}

type RejectPerformanceRequest struct {
	Reason string `json:"reason"`
}

func (req *RejectPerformanceRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Reason, validation.Required, validation.Length(1, 2000)),
	)
}

type FinalSubmitRequest struct {
	Setlist          []string `json:"setlist"`
	RehearsalTimes   []string `json:"rehearsal_times"`
	PerformanceSlots []string `json:"performance_slots"`
}

func (req *FinalSubmitRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Setlist, validation.Required),
		validation.Field(&req.RehearsalTimes, validation.Required),
		validation.Field(&req.PerformanceSlots, validation.Required),
	)
}
