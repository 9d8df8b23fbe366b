package domain

import "time"

type PerformanceState string

const (
	PerformanceCreated   PerformanceState = "CREATED"
	PerformanceSubmitted PerformanceState = "SUBMITTED"
	PerformanceReviewed  PerformanceState = "REVIEWED"
	PerformanceApproved  PerformanceState = "APPROVED"
	PerformanceScheduled PerformanceState = "SCHEDULED"
	PerformanceRejected  PerformanceState = "REJECTED"
)

type MerchandiseItem struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	Price       float64 `json:"price"`
}

type Performance struct {
	ID                        uint              `json:"id"`
	FestivalID                uint              `json:"festival_id"`
	Name                      string            `json:"name"`
	Description               string            `json:"description"`
	Genre                     string            `json:"genre"`
	Duration                  int               `json:"duration"`
	CreatorID                 uint              `json:"-"`
	Creator                   User              `json:"-"`
	BandMembers               []User            `json:"-"`
	TechnicalRequirement      string            `json:"technical_requirement,omitempty"`
	Setlist                   []string          `json:"setlist,omitempty"`
	MerchandiseItems          []MerchandiseItem `json:"merchandise_items,omitempty"`
	PreferredRehearsalTimes   []string          `json:"preferred_rehearsal_times,omitempty"`
	PreferredPerformanceSlots []string          `json:"preferred_performance_slots,omitempty"`
	StageManagerID            *uint             `json:"-"`
	StageManager              *User             `json:"-"`
	Score                     *float64          `json:"score,omitempty"`
	ReviewerComments          string            `json:"reviewer_comments,omitempty"`
	RejectionReason           string            `json:"rejection_reason,omitempty"`
	FinallySubmitted          bool              `json:"finally_submitted"`
	State                     PerformanceState  `json:"state"`
	CreatedAt                 time.Time         `json:"created_at"`
	UpdatedAt                 time.Time         `json:"updated_at"`
}

// Complete reports whether every field required for submission is populated.
func (p Performance) Complete() bool {
	return p.Name != "" &&
		p.Description != "" &&
		p.Genre != "" &&
		p.Duration > 0 &&
		p.TechnicalRequirement != "" &&
		len(p.Setlist) > 0 &&
		len(p.MerchandiseItems) > 0 &&
		len(p.PreferredRehearsalTimes) > 0 &&
		len(p.PreferredPerformanceSlots) > 0
}

// HasBandMember reports whether the given user plays in this performance.
func (p Performance) HasBandMember(userID uint) bool {
	for _, m := range p.BandMembers {
		if m.ID == userID {
			return true
		}
	}

	return false
}
