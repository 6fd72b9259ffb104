package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProfile() *ResidentProfile {
	return &ResidentProfile{
		UserID:     "u-1",
		OrgID:      "org-1",
		PropertyID: "prop-1",
		Name:       "Jordan Reyes",
		Email:      "jordan@example.com",
		Phone:      "(512) 555-1234",
		Address: Address{
			Line1:      "100 Main St",
			City:       "Austin",
			State:      "TX",
			PostalCode: "78701",
		},
		Vehicles: []Vehicle{
			{Make: "Toyota", Model: "Camry", Year: 2020, Color: "Blue", Plate: "ABC123"},
		},
	}
}

func TestNewDraftSeedsFromProfile(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	d := NewServiceRequestDraft(testProfile(), now)

	assert.NotEmpty(t, d.ID)
	assert.NotEmpty(t, d.SubmissionKey)
	assert.Equal(t, "Jordan Reyes", d.Contact.Name)
	assert.Equal(t, "512-555-1234", d.Contact.Phone, "stored phone is normalized on open")
	assert.Equal(t, now.Add(DefaultArrivalLead), d.ArrivalTime)
	assert.Equal(t, JourneyUnset, d.Journey)
	assert.Equal(t, 1, d.VehiclesOnFile)
	assert.True(t, d.Location.IsEmpty())
}

func TestNewDraftWithoutProfile(t *testing.T) {
	d := NewServiceRequestDraft(nil, time.Now())

	assert.Empty(t, d.Contact.Name)
	assert.Empty(t, d.Contact.Phone)
	assert.Zero(t, d.VehiclesOnFile)
}

func TestSetPhoneNormalizes(t *testing.T) {
	d := NewServiceRequestDraft(nil, time.Now())

	d.SetPhone("512555")
	assert.Equal(t, "512-555", d.Contact.Phone)

	d.SetPhone("(512) 555-1234 ext 9")
	assert.Equal(t, "512-555-1234", d.Contact.Phone)
}

func TestSetJourneyResetsLocation(t *testing.T) {
	d := NewServiceRequestDraft(testProfile(), time.Now())

	d.SetJourney(JourneyOnPremise)
	assert.Equal(t, "100 Main St", d.Location.Line1, "on-premise takes the property address")

	d.SetJourney(JourneyOffPremise)
	assert.True(t, d.Location.IsEmpty(), "switching away clears the location")

	d.SetManualAddress(Address{Line1: "200 Oak Ave", City: "Dallas", State: "TX", PostalCode: "75201"})
	d.SetJourney(JourneyOnPremise)
	assert.Equal(t, "100 Main St", d.Location.Line1, "manual data never leaks into on-premise")
}

func TestSetJourneySameValueKeepsLocation(t *testing.T) {
	d := NewServiceRequestDraft(testProfile(), time.Now())

	d.SetJourney(JourneyOffPremise)
	manual := Address{Line1: "200 Oak Ave", City: "Dallas", State: "TX", PostalCode: "75201"}
	d.SetManualAddress(manual)

	d.SetJourney(JourneyOffPremise)
	assert.Equal(t, manual, d.Location, "re-selecting the same journey is a no-op")
}

func TestManualAddressIgnoredOnPremise(t *testing.T) {
	d := NewServiceRequestDraft(testProfile(), time.Now())
	d.SetJourney(JourneyOnPremise)

	d.SetManualAddress(Address{Line1: "should not apply"})
	d.ApplyResolvedAddress(Address{Line1: "should not apply either"})

	assert.Equal(t, "100 Main St", d.Location.Line1)
}

func TestArrivalDateAndClockAreIndependent(t *testing.T) {
	d := NewServiceRequestDraft(nil, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	// arrival defaults to 09:30 on march 10

	d.SetArrivalDate(time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC), d.ArrivalTime,
		"date change keeps the clock half")

	d.SetArrivalClock(14, 15)
	assert.Equal(t, time.Date(2026, 4, 2, 14, 15, 0, 0, time.UTC), d.ArrivalTime,
		"clock change keeps the date half")
}

func TestServiceTypeSelection(t *testing.T) {
	d := NewServiceRequestDraft(nil, time.Now())

	d.SetServiceTypeIDs([]int{3, 1, 3, 2, 1})
	assert.Equal(t, []int{3, 1, 2}, d.SelectedServiceTypeIDs, "duplicates are dropped, order kept")

	d.ToggleServiceType(1)
	assert.Equal(t, []int{3, 2}, d.SelectedServiceTypeIDs)

	d.ToggleServiceType(7)
	assert.Equal(t, []int{3, 2, 7}, d.SelectedServiceTypeIDs)
}

func TestMissingFieldsWithVehiclesOnFile(t *testing.T) {
	d := NewServiceRequestDraft(testProfile(), time.Now())
	assert.ElementsMatch(t, []string{"serviceTypes", "location", "vehicle"}, d.MissingFields())
	assert.False(t, d.IsSubmittable())

	d.SetServiceTypeIDs([]int{1})
	d.SetJourney(JourneyOnPremise)
	assert.Equal(t, []string{"vehicle"}, d.MissingFields())

	idx := 0
	d.SelectVehicle(&idx)
	require.Empty(t, d.MissingFields())
	assert.True(t, d.IsSubmittable())
}

func TestMissingFieldsWithoutVehiclesOnFile(t *testing.T) {
	profile := testProfile()
	profile.Vehicles = nil
	d := NewServiceRequestDraft(profile, time.Now())

	d.SetServiceTypeIDs([]int{1})
	d.SetJourney(JourneyOnPremise)

	assert.True(t, d.IsSubmittable(), "no vehicle selection required when none are on file")
}

func TestMissingFieldsRequiresPhone(t *testing.T) {
	d := NewServiceRequestDraft(nil, time.Now())
	assert.Contains(t, d.MissingFields(), "phone")

	d.SetPhone("5125551234")
	assert.NotContains(t, d.MissingFields(), "phone")
}

func TestResetRestoresDefaultsAndRotatesKey(t *testing.T) {
	d := NewServiceRequestDraft(testProfile(), time.Now())
	originalKey := d.SubmissionKey

	d.SetServiceTypeIDs([]int{1, 2})
	d.SetJourney(JourneyOnPremise)
	idx := 0
	d.SelectVehicle(&idx)
	d.SetNotes("gate code 4455")
	d.SetSMSConsent(true)

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	d.Reset(now)

	assert.Equal(t, JourneyUnset, d.Journey)
	assert.True(t, d.Location.IsEmpty())
	assert.Empty(t, d.SelectedServiceTypeIDs)
	assert.Nil(t, d.SelectedVehicle)
	assert.Empty(t, d.Notes)
	assert.False(t, d.SMSConsent)
	assert.Equal(t, now.Add(DefaultArrivalLead), d.ArrivalTime)
	assert.NotEqual(t, originalKey, d.SubmissionKey, "reset starts a new submission attempt")
}
