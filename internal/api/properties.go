package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/mishannn/homesearch-go/internal/listing"
)

// SearchPropertiesResponseBody keeps results raw so that one malformed record
// is rejected on its own instead of failing the page.
type SearchPropertiesResponseBody struct {
	Results []json.RawMessage `json:"results"`
	HasMore bool             `json:"has_more"`
	Count   int              `json:"count"`
}

// PropertyRecord is a search result as the server sends it. Nothing here is
// trusted until Decode has checked it.
type PropertyRecord struct {
	PropertyID   string          `json:"property_id"`
	Name         string          `json:"name"`
	Address      string          `json:"address"`
	SellingPrice *float64        `json:"selling_price"`
	Bedrooms     *int            `json:"bedrooms"`
	Bathrooms    *int            `json:"bathrooms"`
	Sqft         *float64        `json:"sqft"`
	MainPhotoURL string          `json:"mainphoto_url"`
	Description  string          `json:"description"`
	PropertyType string          `json:"property_type"`
	IsSaved      bool            `json:"is_saved"`
	Location     *RecordLocation `json:"location"`
}

type RecordLocation struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// SearchPage is one decoded page of search results. Rejected holds the
// records that failed validation; they are not part of Listings.
type SearchPage struct {
	Listings []listing.Listing
	HasMore  bool
	Count    int
	Rejected []*DecodeError
}

func (c *Client) SearchProperties(ctx context.Context, body map[string]any, page int, pageSize int) (*SearchPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("page_size", strconv.Itoa(pageSize))

	var respBody SearchPropertiesResponseBody
	err := c.post(ctx, searchPropertiesPath, query, body, &respBody)
	if err != nil {
		return nil, fmt.Errorf("can't search properties: %w", err)
	}

	result := &SearchPage{
		Listings: make([]listing.Listing, 0, len(respBody.Results)),
		HasMore:  respBody.HasMore,
		Count:    respBody.Count,
	}

	for i, raw := range respBody.Results {
		record, err := unmarshalRecord(raw)
		var item listing.Listing
		if err == nil {
			item, err = record.Decode()
		}
		if err != nil {
			derr := &DecodeError{Index: i, ID: record.PropertyID, Err: err}
			c.logger.Warn("rejected property record",
				zap.Int("page", page),
				zap.Int("index", i),
				zap.String("property_id", record.PropertyID),
				zap.Error(err))
			result.Rejected = append(result.Rejected, derr)
			continue
		}

		result.Listings = append(result.Listings, item)
	}

	return result, nil
}

// unmarshalRecord decodes one result. On a type mismatch the returned record
// still carries the property id when it could be read.
func unmarshalRecord(raw json.RawMessage) (PropertyRecord, error) {
	var record PropertyRecord
	err := json.Unmarshal(raw, &record)
	if err == nil {
		return record, nil
	}

	var id struct {
		PropertyID string `json:"property_id"`
	}
	_ = json.Unmarshal(raw, &id)

	return PropertyRecord{PropertyID: id.PropertyID}, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
}
