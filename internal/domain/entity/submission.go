package entity

// ServiceRequestPayload is the exact shape forwarded to the field-service
// job system: org/property scope, trimmed notes, RFC3339 UTC timestamp,
// phone, consent flag, structured location, service-type pairs and the
// selected vehicle's attributes flattened alongside.
type ServiceRequestPayload struct {
	IdempotencyKey string            `json:"idempotencyKey"`
	OrgID          string            `json:"orgId"`
	PropertyID     string            `json:"propertyId"`
	UserID         string            `json:"userId"`
	ContactName    string            `json:"contactName"`
	ContactEmail   string            `json:"contactEmail"`
	ContactPhone   string            `json:"contactPhone"`
	ArrivalTime    string            `json:"arrivalTime"`
	Journey        string            `json:"journey"`
	Location       Address           `json:"location"`
	ServiceTypes   []ServiceTypePair `json:"serviceTypes"`
	VehicleYear    int               `json:"vehicleYear,omitempty"`
	VehicleMake    string            `json:"vehicleMake,omitempty"`
	VehicleModel   string            `json:"vehicleModel,omitempty"`
	VehicleColor   string            `json:"vehicleColor,omitempty"`
	VehiclePlate   string            `json:"vehiclePlate,omitempty"`
	Notes          string            `json:"notes"`
	SMSConsent     bool              `json:"smsConsent"`
}

// ServiceRequestResult is the job-creation outcome returned by the vendor
type ServiceRequestResult struct {
	JobID  string `json:"jobId"`
	Status string `json:"status"`
}
