package request

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFestivalRequest_Validate(t *testing.T) {
	req := CreateFestivalRequest{
		Name:  "Summer Sounds",
		Venue: "Riverside Park",
		Dates: []string{"2026-07-10"},
	}
	require.NoError(t, req.Validate())

	assert.Error(t, (&CreateFestivalRequest{Venue: "Park", Dates: []string{"2026-07-10"}}).Validate())
	assert.Error(t, (&CreateFestivalRequest{Name: "Summer Sounds", Dates: []string{"2026-07-10"}}).Validate())
	assert.Error(t, (&CreateFestivalRequest{Name: "Summer Sounds", Venue: "Park"}).Validate())
}

func TestCreateFestivalRequest_ParseDates(t *testing.T) {
	req := CreateFestivalRequest{Dates: []string{"2026-07-10", "2026-07-11"}}

	dates, err := req.ParseDates()
	require.NoError(t, err)
	require.Len(t, dates, 2)
	assert.Equal(t, time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC), dates[0])

	req.Dates = []string{"10/07/2026"}
	_, err = req.ParseDates()
	assert.Error(t, err)

	req.Dates = []string{"2026-13-40"}
	_, err = req.ParseDates()
	assert.Error(t, err)
}

func TestUpdateFestivalRequest_Validate(t *testing.T) {
	assert.NoError(t, (&UpdateFestivalRequest{}).Validate())

	name := "Summer Sounds"
	assert.NoError(t, (&UpdateFestivalRequest{Name: &name}).Validate())

	empty := ""
	assert.Error(t, (&UpdateFestivalRequest{Name: &empty}).Validate())
	assert.Error(t, (&UpdateFestivalRequest{Venue: &empty}).Validate())
}

func TestUpdateFestivalRequest_ParseDates_NilMeansUnchanged(t *testing.T) {
	dates, err := (&UpdateFestivalRequest{}).ParseDates()
	require.NoError(t, err)
	assert.Nil(t, dates)
}

func TestAddUsersRequest_Validate(t *testing.T) {
	require.NoError(t, (&AddUsersRequest{Usernames: []string{"alice"}}).Validate())
	assert.ErrorIs(t, (&AddUsersRequest{}).Validate(), errNoUsernames)
	assert.Error(t, (&AddUsersRequest{Usernames: []string{"alice", ""}}).Validate())
}
