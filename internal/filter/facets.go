package filter

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
)

var (
	DefaultPrice     = Range{Min: 100, Max: 10000000}
	DefaultBeds      = Range{Min: 0, Max: 5}
	DefaultBaths     = Range{Min: 0, Max: 5}
	DefaultParking   = Range{Min: 0, Max: 5}
	DefaultTotalSqft = Range{Min: 0, Max: 10000}
	DefaultLotSqft   = Range{Min: 0, Max: 50000}
)

const (
	DefaultSearch = "Punta Cana"
	NoHOA         = "No HOA"
)

type Sort string

const (
	SortDefault   Sort = "default"
	SortLowToHigh Sort = "low_to_high"
	SortHighToLow Sort = "high_to_low"
)

func ParseSort(s string) (Sort, error) {
	switch Sort(s) {
	case "", SortDefault:
		return SortDefault, nil
	case SortLowToHigh, SortHighToLow:
		return Sort(s), nil
	}

	return "", fmt.Errorf("unknown sort order %q", s)
}

// BedsBaths is edited by a single popover.
type BedsBaths struct {
	Beds  Range `json:"beds" yaml:"beds"`
	Baths Range `json:"baths" yaml:"baths"`
}

var DefaultBedsBaths = BedsBaths{Beds: DefaultBeds, Baths: DefaultBaths}

// MoreFilters is the set of facets staged by the "more filters" drawer.
type MoreFilters struct {
	PropertyStatus []string `json:"property_status" yaml:"property_status"`
	ListingTypes   []string `json:"listing_types" yaml:"listing_types"`
	Parking        Range    `json:"parking" yaml:"parking"`
	TotalSqft      Range    `json:"total_sqft" yaml:"total_sqft"`
	LotSqft        Range    `json:"lot_sqft" yaml:"lot_sqft"`
	MaxHOA         string   `json:"max_hoa" yaml:"max_hoa"`
	Appliances     []string `json:"appliances" yaml:"appliances"`
	Indoor         []string `json:"indoor" yaml:"indoor"`
	Outdoor        []string `json:"outdoor" yaml:"outdoor"`
	Community      []string `json:"community" yaml:"community"`
	Views          []string `json:"views" yaml:"views"`
}

var DefaultMoreFilters = MoreFilters{
	Parking:   DefaultParking,
	TotalSqft: DefaultTotalSqft,
	LotSqft:   DefaultLotSqft,
	MaxHOA:    NoHOA,
}

func (m MoreFilters) clone() MoreFilters {
	m.PropertyStatus = slices.Clone(m.PropertyStatus)
	m.ListingTypes = slices.Clone(m.ListingTypes)
	m.Appliances = slices.Clone(m.Appliances)
	m.Indoor = slices.Clone(m.Indoor)
	m.Outdoor = slices.Clone(m.Outdoor)
	m.Community = slices.Clone(m.Community)
	m.Views = slices.Clone(m.Views)
	return m
}

func (m MoreFilters) normalize() MoreFilters {
	m.Parking = m.Parking.Normalize()
	m.TotalSqft = m.TotalSqft.Normalize()
	m.LotSqft = m.LotSqft.Normalize()
	if m.MaxHOA == "" {
		m.MaxHOA = NoHOA
	}
	return m
}

func (m MoreFilters) equal(o MoreFilters) bool {
	return slices.Equal(m.PropertyStatus, o.PropertyStatus) &&
		slices.Equal(m.ListingTypes, o.ListingTypes) &&
		m.Parking == o.Parking &&
		m.TotalSqft == o.TotalSqft &&
		m.LotSqft == o.LotSqft &&
		m.MaxHOA == o.MaxHOA &&
		slices.Equal(m.Appliances, o.Appliances) &&
		slices.Equal(m.Indoor, o.Indoor) &&
		slices.Equal(m.Outdoor, o.Outdoor) &&
		slices.Equal(m.Community, o.Community) &&
		slices.Equal(m.Views, o.Views)
}

var hoaRegexp = regexp.MustCompile(`\$?(\d+)`)

// ParseHOA extracts the fee from labels like "$300/month". "No HOA" and
// unparsable labels yield false.
func ParseHOA(label string) (int, bool) {
	if label == "" || label == NoHOA {
		return 0, false
	}

	m := hoaRegexp.FindStringSubmatch(label)
	if m == nil {
		return 0, false
	}

	v, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}

	return v, true
}

// Toggle adds id to the set or removes it if already there.
func Toggle(set []string, id string) []string {
	if i := slices.Index(set, id); i >= 0 {
		return slices.Delete(set, i, i+1)
	}
	return append(set, id)
}
