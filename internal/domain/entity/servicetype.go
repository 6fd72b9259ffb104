package entity

// ServiceType is one entry of the field-service vendor's catalog
type ServiceType struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	IsInternal bool   `json:"isInternal"`
}

// ServiceTypePair is the {id, name} shape forwarded on submission. An id
// with no catalog match keeps an empty name rather than being rejected.
type ServiceTypePair struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
