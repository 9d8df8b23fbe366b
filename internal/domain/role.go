package domain

type FestivalRole string

const (
	FestivalRoleOrganizer FestivalRole = "ORGANIZER"
	FestivalRoleStaff     FestivalRole = "STAFF"
	FestivalRoleArtist    FestivalRole = "ARTIST"
)

// FestivalUserRole binds a user to a role within one festival. The
// (festival, user, role) triple is unique. Founder marks the creator's
// organizer binding, which can never be removed.
type FestivalUserRole struct {
	ID         uint         `json:"-"`
	FestivalID uint         `json:"festival_id"`
	UserID     uint         `json:"user_id"`
	Username   string       `json:"username"`
	Role       FestivalRole `json:"role"`
	Founder    bool         `json:"founder"`
}
