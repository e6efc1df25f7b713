package filter

import "slices"

// Criteria is the committed value of every facet, i.e. what the active query
// is built from.
type Criteria struct {
	Search        string
	Sort          Sort
	Price         Range
	BedsBaths     BedsBaths
	PropertyTypes []string
	More          MoreFilters
}

func DefaultCriteria() Criteria {
	return Criteria{
		Search:    DefaultSearch,
		Sort:      SortDefault,
		Price:     DefaultPrice,
		BedsBaths: DefaultBedsBaths,
		More:      DefaultMoreFilters.clone(),
	}
}

func (c Criteria) Equal(o Criteria) bool {
	return c.Search == o.Search &&
		c.Sort == o.Sort &&
		c.Price == o.Price &&
		c.BedsBaths == o.BedsBaths &&
		slices.Equal(c.PropertyTypes, o.PropertyTypes) &&
		c.More.equal(o.More)
}

// Body builds the listing search request body. Only facets that differ from
// their defaults are sent.
func (c Criteria) Body() map[string]any {
	body := map[string]any{
		"search": c.Search,
	}

	putRange(body, "price", c.Price, DefaultPrice)
	putRange(body, "bedrooms", c.BedsBaths.Beds, DefaultBeds)
	putRange(body, "bathrooms", c.BedsBaths.Baths, DefaultBaths)
	putRange(body, "parking", c.More.Parking, DefaultParking)
	putRange(body, "total_sqft", c.More.TotalSqft, DefaultTotalSqft)
	putRange(body, "lot_sqft", c.More.LotSqft, DefaultLotSqft)

	if fee, ok := ParseHOA(c.More.MaxHOA); ok {
		body["max_hoa_fees"] = fee
	}

	putSet(body, "property_types", c.PropertyTypes)
	putSet(body, "property_status", c.More.PropertyStatus)
	putSet(body, "listing_types", c.More.ListingTypes)
	putSet(body, "outdoor_amenities_uuids", c.More.Outdoor)
	putSet(body, "viewtype_uuids", c.More.Views)
	putSet(body, "indoor_features_uuids", c.More.Indoor)
	putSet(body, "community_uuids", c.More.Community)
	putSet(body, "appliances_uuids", c.More.Appliances)

	if c.Sort == SortLowToHigh || c.Sort == SortHighToLow {
		body["sort_by"] = string(c.Sort)
	}

	return body
}

func putRange(body map[string]any, name string, r Range, def Range) {
	if v, ok := r.From(def); ok {
		body[name+"_from"] = v
	}
	if v, ok := r.To(def); ok {
		body[name+"_to"] = v
	}
}

func putSet(body map[string]any, name string, set []string) {
	if len(set) > 0 {
		body[name] = slices.Clone(set)
	}
}
