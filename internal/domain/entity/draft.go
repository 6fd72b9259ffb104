package entity

import (
	"time"

	"github.com/google/uuid"

	"resident-request-service/pkg/utils"
)

// Journey is the resident's choice of where the service happens
type Journey string

const (
	JourneyUnset      Journey = ""
	JourneyOnPremise  Journey = "on_premise"
	JourneyOffPremise Journey = "off_premise"
)

// Default lead time applied to the arrival field when a draft opens
const DefaultArrivalLead = 30 * time.Minute

// Contact is the requester contact block. Name and email are sourced from
// the account and never edited through the draft.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ServiceRequestDraft is the mutable draft of a service request. It lives
// for one open-to-submit cycle and is destroyed on teardown or on a
// successful submit.
type ServiceRequestDraft struct {
	ID                     string    `json:"id"`
	Contact                Contact   `json:"contact"`
	ArrivalTime            time.Time `json:"arrivalTime"`
	Journey                Journey   `json:"journey"`
	Location               Address   `json:"location"`
	SelectedServiceTypeIDs []int     `json:"selectedServiceTypeIds"`
	SelectedVehicle        *int      `json:"selectedVehicle,omitempty"`
	Notes                  string    `json:"notes"`
	SMSConsent             bool      `json:"smsConsent"`

	// SubmissionKey deduplicates retries of an unchanged draft server-side.
	// It is minted when the draft opens and rotated only by Reset, so a
	// retried submit after a timeout carries the same key.
	SubmissionKey string `json:"-"`

	// PropertyAddress is the authoritative on-premise location, read from
	// the resident's stored profile when the draft opens
	PropertyAddress Address `json:"-"`

	// VehiclesOnFile is the resident's vehicle count at open; a vehicle
	// selection is required whenever it is non-zero
	VehiclesOnFile int `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewServiceRequestDraft opens a draft seeded from the resident profile.
// A nil profile (resident never provisioned) seeds empty defaults.
func NewServiceRequestDraft(profile *ResidentProfile, now time.Time) *ServiceRequestDraft {
	d := &ServiceRequestDraft{
		ID:            uuid.NewString(),
		ArrivalTime:   now.Add(DefaultArrivalLead),
		SubmissionKey: uuid.NewString(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if profile != nil {
		d.Contact = Contact{
			Name:  profile.Name,
			Email: profile.Email,
			Phone: utils.FormatPhone(profile.Phone),
		}
		d.PropertyAddress = profile.Address
		d.VehiclesOnFile = len(profile.Vehicles)
	}
	return d
}

// SetPhone normalizes and stores the contact phone
func (d *ServiceRequestDraft) SetPhone(raw string) {
	d.Contact.Phone = utils.FormatPhone(raw)
}

// SetJourney switches where the service happens. Changing journey resets
// the location to that journey's authoritative source so partial data never
// leaks across journeys: on-premise takes the stored property address,
// off-premise starts empty until typed or resolved.
func (d *ServiceRequestDraft) SetJourney(j Journey) {
	if d.Journey == j {
		return
	}
	d.Journey = j
	switch j {
	case JourneyOnPremise:
		d.Location = d.PropertyAddress
	default:
		d.Location = Address{}
	}
}

// SetManualAddress overrides the location with a hand-typed address; only
// honored for off-premise journeys, the on-premise location is read-only
func (d *ServiceRequestDraft) SetManualAddress(a Address) {
	if d.Journey == JourneyOnPremise {
		return
	}
	d.Location = a
}

// ApplyResolvedAddress fills the location from an address-resolution result
func (d *ServiceRequestDraft) ApplyResolvedAddress(a Address) {
	if d.Journey == JourneyOnPremise {
		return
	}
	d.Location = a
}

// SetArrivalAt replaces the full arrival instant
func (d *ServiceRequestDraft) SetArrivalAt(t time.Time) {
	d.ArrivalTime = t
}

// SetArrivalDate replaces the year/month/day half of the arrival instant
// without perturbing the clock half
func (d *ServiceRequestDraft) SetArrivalDate(date time.Time) {
	cur := d.ArrivalTime
	d.ArrivalTime = time.Date(
		date.Year(), date.Month(), date.Day(),
		cur.Hour(), cur.Minute(), cur.Second(), 0,
		cur.Location(),
	)
}

// SetArrivalClock replaces the hour/minute half of the arrival instant
// without perturbing the date half
func (d *ServiceRequestDraft) SetArrivalClock(hour, minute int) {
	cur := d.ArrivalTime
	d.ArrivalTime = time.Date(
		cur.Year(), cur.Month(), cur.Day(),
		hour, minute, 0, 0,
		cur.Location(),
	)
}

// SetServiceTypeIDs replaces the selected set, dropping duplicates
func (d *ServiceRequestDraft) SetServiceTypeIDs(ids []int) {
	seen := make(map[int]bool, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	d.SelectedServiceTypeIDs = out
}

// ToggleServiceType adds or removes a single catalog id
func (d *ServiceRequestDraft) ToggleServiceType(id int) {
	for i, existing := range d.SelectedServiceTypeIDs {
		if existing == id {
			d.SelectedServiceTypeIDs = append(
				d.SelectedServiceTypeIDs[:i], d.SelectedServiceTypeIDs[i+1:]...)
			return
		}
	}
	d.SelectedServiceTypeIDs = append(d.SelectedServiceTypeIDs, id)
}

// SelectVehicle picks a vehicle by its position in the profile list;
// nil clears the selection
func (d *ServiceRequestDraft) SelectVehicle(index *int) {
	d.SelectedVehicle = index
}

// SetNotes stores the free-text notes
func (d *ServiceRequestDraft) SetNotes(notes string) {
	d.Notes = notes
}

// SetSMSConsent stores the SMS consent flag
func (d *ServiceRequestDraft) SetSMSConsent(consent bool) {
	d.SMSConsent = consent
}

// MissingFields names the required fields that are still empty. An empty
// result means the draft is submittable.
func (d *ServiceRequestDraft) MissingFields() []string {
	var missing []string
	if len(d.SelectedServiceTypeIDs) == 0 {
		missing = append(missing, "serviceTypes")
	}
	if !d.Location.HasMinimumFields() {
		missing = append(missing, "location")
	}
	if d.Contact.Phone == "" {
		missing = append(missing, "phone")
	}
	if d.VehiclesOnFile > 0 && d.SelectedVehicle == nil {
		missing = append(missing, "vehicle")
	}
	return missing
}

// IsSubmittable reports whether a submit attempt would pass local validation
func (d *ServiceRequestDraft) IsSubmittable() bool {
	return len(d.MissingFields()) == 0
}

// Reset returns every field to its default, journey back to unselected,
// and rotates the submission key so the next request is a new attempt
func (d *ServiceRequestDraft) Reset(now time.Time) {
	d.ArrivalTime = now.Add(DefaultArrivalLead)
	d.Journey = JourneyUnset
	d.Location = Address{}
	d.SelectedServiceTypeIDs = nil
	d.SelectedVehicle = nil
	d.Notes = ""
	d.SMSConsent = false
	d.SubmissionKey = uuid.NewString()
	d.UpdatedAt = now
}

// Touch records draft activity for idle expiry
func (d *ServiceRequestDraft) Touch(now time.Time) {
	d.UpdatedAt = now
}

// Clone returns an independent copy safe to hand out while the original
// keeps being mutated
func (d *ServiceRequestDraft) Clone() *ServiceRequestDraft {
	c := *d
	c.SelectedServiceTypeIDs = append([]int(nil), d.SelectedServiceTypeIDs...)
	if d.SelectedVehicle != nil {
		idx := *d.SelectedVehicle
		c.SelectedVehicle = &idx
	}
	return &c
}
