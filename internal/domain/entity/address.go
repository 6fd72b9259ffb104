package entity

// AddressSuggestion is a ranked autocomplete candidate; the ID is an opaque
// provider reference that can be exchanged for a full address
type AddressSuggestion struct {
	ID          string `json:"id"`
	DisplayText string `json:"displayText"`
}

// Address is a normalized postal address record
type Address struct {
	Line1      string   `json:"line1" bson:"line1"`
	Unit       string   `json:"unit,omitempty" bson:"unit,omitempty"`
	City       string   `json:"city" bson:"city"`
	State      string   `json:"state" bson:"state"`
	PostalCode string   `json:"postalCode" bson:"postalCode"`
	Country    string   `json:"country,omitempty" bson:"country,omitempty"`
	FullText   string   `json:"fullText,omitempty" bson:"fullText,omitempty"`
	Latitude   *float64 `json:"latitude,omitempty" bson:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty" bson:"longitude,omitempty"`
}

// HasMinimumFields reports whether the address is complete enough to submit:
// line1, city, state and postal code must all be present
func (a Address) HasMinimumFields() bool {
	return a.Line1 != "" && a.City != "" && a.State != "" && a.PostalCode != ""
}

// IsEmpty reports whether no address data has been entered at all
func (a Address) IsEmpty() bool {
	return a.Line1 == "" && a.Unit == "" && a.City == "" && a.State == "" &&
		a.PostalCode == "" && a.FullText == ""
}
