package response

import (
	"time"

	"github.com/vietanh2810/festival-api/internal/domain"
)

// FestivalResponse renders a festival at one of two detail levels. Anonymous
// and unrelated callers get the coarse public fields only; organizers and
// staff additionally see rosters, layout, budget and vendor data.
type FestivalResponse struct {
	ID          uint          `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Venue       string        `json:"venue"`
	Dates       []time.Time   `json:"dates"`
	State       string        `json:"state"`

	Organizers       []string                 `json:"organizers,omitempty"`
	Staff            []string                 `json:"staff,omitempty"`
	VenueLayout      *domain.VenueLayout      `json:"venue_layout,omitempty"`
	Budget           *domain.Budget           `json:"budget,omitempty"`
	VendorManagement *domain.VendorManagement `json:"vendor_management,omitempty"`
}

func NewFestivalResponse(f domain.Festival, detailed bool) FestivalResponse {
	resp := FestivalResponse{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		Venue:       f.Venue,
		Dates:       f.Dates,
		State:       string(f.State),
	}

	if detailed {
		resp.Organizers = f.Organizers()
		resp.Staff = f.Staff()
		resp.VenueLayout = f.VenueLayout
		resp.Budget = f.Budget
		resp.VendorManagement = f.VendorManagement
	}

	return resp
}

func NewFestivalListResponse(festivals []domain.Festival, detailed []bool) []FestivalResponse {
	resp := make([]FestivalResponse, 0, len(festivals))
	for i, f := range festivals {
		resp = append(resp, NewFestivalResponse(f, detailed[i]))
	}

	return resp
}
