package models

// Coordinates is a resolved point in decimal degrees.
type Coordinates struct {
	Latitude    float64 `json:"lat" example:"59.3251"`
	Longitude   float64 `json:"lon" example:"18.0711"`
	DisplayName string  `json:"display_name,omitempty"`
}

// LocationCandidate is one ranked geocoding match. Higher importance means
// a better match. Candidates are produced once by the resolver and never
// mutated afterwards.
type LocationCandidate struct {
	Latitude    float64 `json:"lat"`
	Longitude   float64 `json:"lon"`
	DisplayName string  `json:"display_name"`
	Importance  float64 `json:"importance"`
	Kind        string  `json:"type,omitempty"`
}
