package domain

import "time"

// Space is a bookable shared amenity. The ID is assigned at creation and
// never changes. ImageURI is authoritative when non-empty; ImageResource is
// the bundled placeholder asset used as a fallback.
type Space struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Capacity      int       `json:"capacity"`
	Available     bool      `json:"available"`
	ImageResource string    `json:"image_resource"`
	ImageURI      string    `json:"image_uri,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Image returns the authoritative image reference for the space.
func (s *Space) Image() string {
	if s.ImageURI != "" {
		return s.ImageURI
	}
	return s.ImageResource
}

// SpaceRequest carries the raw form fields of the space create/update form.
// Capacity arrives as free text; a value that does not parse as an integer
// counts as 0 and fails the capacity check.
type SpaceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Capacity    string `json:"capacity"`
	ImageSource string `json:"image_source,omitempty"`
}
