package listing

// Coordinates is nil on a listing when the server sent no usable location.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Listing struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Address      string       `json:"address"`
	Coordinates  *Coordinates `json:"coordinates,omitempty"`
	Price        float64      `json:"price"`
	Bedrooms     int          `json:"bedrooms"`
	Bathrooms    int          `json:"bathrooms"`
	Area         float64      `json:"area"`
	MainPhotoURL string       `json:"main_photo_url"`
	Description  string       `json:"description"`
	PropertyType string       `json:"property_type"`

	// IsSaved is owned locally once the listing is in a Store.
	IsSaved bool `json:"is_saved"`
}
