package response

import (
	"github.com/vietanh2810/festival-api/internal/domain"
)

// PerformanceResponse renders a performance at one of two detail levels.
// Coarse callers see the public program fields; the creator, band members,
// the stage manager and festival organizers see everything.
type PerformanceResponse struct {
	ID         uint   `json:"id"`
	FestivalID uint   `json:"festival_id"`
	Name       string `json:"name"`
	Genre      string `json:"genre"`
	Duration   int    `json:"duration"`
	State      string `json:"state"`

	Description               string                   `json:"description,omitempty"`
	Creator                   string                   `json:"creator,omitempty"`
	BandMembers               []string                 `json:"band_members,omitempty"`
	TechnicalRequirement      string                   `json:"technical_requirement,omitempty"`
	Setlist                   []string                 `json:"setlist,omitempty"`
	MerchandiseItems          []domain.MerchandiseItem `json:"merchandise_items,omitempty"`
	PreferredRehearsalTimes   []string                 `json:"preferred_rehearsal_times,omitempty"`
	PreferredPerformanceSlots []string                 `json:"preferred_performance_slots,omitempty"`
	StageManager              string                   `json:"stage_manager,omitempty"`
	Score                     *float64                 `json:"score,omitempty"`
	ReviewerComments          string                   `json:"reviewer_comments,omitempty"`
	RejectionReason           string                   `json:"rejection_reason,omitempty"`
	FinallySubmitted          *bool                    `json:"finally_submitted,omitempty"`
}

func NewPerformanceResponse(p domain.Performance, detailed bool) PerformanceResponse {
	resp := PerformanceResponse{
		ID:         p.ID,
		FestivalID: p.FestivalID,
		Name:       p.Name,
		Genre:      p.Genre,
		Duration:   p.Duration,
		State:      string(p.State),
	}

	if !detailed {
		return resp
	}

	resp.Description = p.Description
	resp.Creator = p.Creator.Username
	for _, m := range p.BandMembers {
		resp.BandMembers = append(resp.BandMembers, m.Username)
	}
	resp.TechnicalRequirement = p.TechnicalRequirement
	resp.Setlist = p.Setlist
	resp.MerchandiseItems = p.MerchandiseItems
	resp.PreferredRehearsalTimes = p.PreferredRehearsalTimes
	resp.PreferredPerformanceSlots = p.PreferredPerformanceSlots
	if p.StageManager != nil {
		resp.StageManager = p.StageManager.Username
	}
	resp.Score = p.Score
	resp.ReviewerComments = p.ReviewerComments
	resp.RejectionReason = p.RejectionReason
	resp.FinallySubmitted = &p.FinallySubmitted

	return resp
}

func NewPerformanceListResponse(performances []domain.Performance, detailed []bool) []PerformanceResponse {
	resp := make([]PerformanceResponse, 0, len(performances))
	for i, p := range performances {
		resp = append(resp, NewPerformanceResponse(p, detailed[i]))
	}

	return resp
}
