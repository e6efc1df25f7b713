package api

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"github.com/mishannn/homesearch-go/internal/listing"
)

var (
	ErrInvalidID       = errors.New("invalid property id")
	ErrMissingTitle    = errors.New("missing title")
	ErrNegativeNumeric = errors.New("negative numeric field")
	ErrMalformedRecord = errors.New("malformed property record")
)

type DecodeError struct {
	Index int
	ID    string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("record %d (%q): %s", e.Index, e.ID, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decode validates the record and converts it to a listing. Coordinates that
// are missing or outside WGS84 ranges leave the listing unmapped instead of
// failing the record.
func (r PropertyRecord) Decode() (listing.Listing, error) {
	id, err := uuid.Parse(r.PropertyID)
	if err != nil {
		return listing.Listing{}, fmt.Errorf("%w: %w", ErrInvalidID, err)
	}

	title := strings.TrimSpace(r.Name)
	if title == "" {
		return listing.Listing{}, ErrMissingTitle
	}

	var errs error
	price := nonNegative("selling_price", r.SellingPrice, &errs)
	area := nonNegative("sqft", r.Sqft, &errs)
	bedrooms := nonNegative("bedrooms", r.Bedrooms, &errs)
	bathrooms := nonNegative("bathrooms", r.Bathrooms, &errs)
	if errs != nil {
		return listing.Listing{}, errs
	}

	return listing.Listing{
		ID:           id.String(),
		Title:        title,
		Address:      strings.TrimSpace(r.Address),
		Coordinates:  r.Location.coordinates(),
		Price:        price,
		Bedrooms:     bedrooms,
		Bathrooms:    bathrooms,
		Area:         area,
		MainPhotoURL: r.MainPhotoURL,
		Description:  htmlToText(r.Description),
		PropertyType: r.PropertyType,
		IsSaved:      r.IsSaved,
	}, nil
}

func nonNegative[T int | float64](field string, v *T, errs *error) T {
	if v == nil {
		return 0
	}
	if *v < 0 {
		*errs = errors.Join(*errs, fmt.Errorf("%w: %s=%v", ErrNegativeNumeric, field, *v))
		return 0
	}
	return *v
}

func (l *RecordLocation) coordinates() *listing.Coordinates {
	if l == nil || l.Lat == nil || l.Lng == nil {
		return nil
	}

	lat, lng := *l.Lat, *l.Lng
	if math.IsNaN(lat) || math.IsNaN(lng) || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil
	}

	return &listing.Coordinates{Lat: lat, Lng: lng}
}

// htmlToText flattens agent-written HTML descriptions to plain text.
func htmlToText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}

	return strings.Join(strings.Fields(doc.Text()), " ")
}
