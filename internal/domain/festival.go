package domain

import "time"

type FestivalState string

const (
	FestivalCreated         FestivalState = "CREATED"
	FestivalSubmission      FestivalState = "SUBMISSION"
	FestivalAssignment      FestivalState = "ASSIGNMENT"
	FestivalReview          FestivalState = "REVIEW"
	FestivalScheduling      FestivalState = "SCHEDULING"
	FestivalFinalSubmission FestivalState = "FINAL_SUBMISSION"
	FestivalDecision        FestivalState = "DECISION"
	FestivalAnnounced       FestivalState = "ANNOUNCED"
)

// VenueLayout describes the physical layout of the festival grounds.
type VenueLayout struct {
	Stages      []string `json:"stages"`
	VendorAreas []string `json:"vendor_areas"`
	Facilities  []string `json:"facilities"`
}

type Budget struct {
	Tracking        float64 `json:"tracking"`
	Costs           float64 `json:"costs"`
	Logistics       float64 `json:"logistics"`
	ExpectedRevenue float64 `json:"expected_revenue"`
}

type VendorManagement struct {
	FoodStalls        []string `json:"food_stalls"`
	MerchandiseBooths []string `json:"merchandise_booths"`
}

type Festival struct {
	ID               uint               `json:"id"`
	Name             string             `json:"name"`
	Description      string             `json:"description"`
	Venue            string             `json:"venue"`
	Dates            []time.Time        `json:"dates"`
	State            FestivalState      `json:"state"`
	VenueLayout      *VenueLayout       `json:"venue_layout,omitempty"`
	Budget           *Budget            `json:"budget,omitempty"`
	VendorManagement *VendorManagement  `json:"vendor_management,omitempty"`
	Roles            []FestivalUserRole `json:"roles,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// Organizers returns the usernames currently bound as ORGANIZER.
func (f Festival) Organizers() []string {
	return f.usernamesWithRole(FestivalRoleOrganizer)
}

// Staff returns the usernames currently bound as STAFF.
func (f Festival) Staff() []string {
	return f.usernamesWithRole(FestivalRoleStaff)
}

func (f Festival) usernamesWithRole(role FestivalRole) []string {
	var names []string
	for _, r := range f.Roles {
		if r.Role == role {
			names = append(names, r.Username)
		}
	}

	return names
}
