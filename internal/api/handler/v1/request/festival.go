package request

import (
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/vietanh2810/festival-api/internal/domain"
)

const dateLayout = "2006-01-02"

var errNoUsernames = errors.New("at least one username is required")

type CreateFestivalRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Venue       string   `json:"venue"`
	Dates       []string `json:"dates"`
}

func (req *CreateFestivalRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Description, validation.Length(0, 2000)),
		validation.Field(&req.Venue, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Dates, validation.Required),
	)
}

func (req *CreateFestivalRequest) ParseDates() ([]time.Time, error) {
	return parseDates(req.Dates)
}

type UpdateFestivalRequest struct {
	Name             *string                  `json:"name"`
	Description      *string                  `json:"description"`
	Venue            *string                  `json:"venue"`
	Dates            []string                 `json:"dates"`
	VenueLayout      *domain.VenueLayout      `json:"venue_layout"`
	Budget           *domain.Budget           `json:"budget"`
	VendorManagement *domain.VendorManagement `json:"vendor_management"`
	Organizers       []string                 `json:"organizers"`
	Staff            []string                 `json:"staff"`
}

func (req *UpdateFestivalRequest) Validate() error {
	if req.Name != nil {
		if err := validation.Validate(*req.Name, validation.Required, validation.Length(2, 100)); err != nil {
			return fmt.Errorf("name: %w", err)
		}
	}
	if req.Venue != nil {
		if err := validation.Validate(*req.Venue, validation.Required, validation.Length(2, 100)); err != nil {
			return fmt.Errorf("venue: %w", err)
		}
	}

	return nil
}

func (req *UpdateFestivalRequest) ParseDates() ([]time.Time, error) {
	if req.Dates == nil {
		return nil, nil
	}

	return parseDates(req.Dates)
}

type AddUsersRequest struct {
	Usernames []string `json:"usernames"`
}

func (req *AddUsersRequest) Validate() error {
	if len(req.Usernames) == 0 {
		return errNoUsernames
	}

	for _, username := range req.Usernames {
		if username == "" {
			return errors.New("usernames must not be empty")
		}
	}

	return nil
}

func parseDates(raw []string) ([]time.Time, error) {
	dates := make([]time.Time, 0, len(raw))
	for _, d := range raw {
		parsed, err := time.Parse(dateLayout, d)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q, expected format %s", d, dateLayout)
		}
		dates = append(dates, parsed)
	}

	return dates, nil
}
