package api

import (
	"context"
	"fmt"
)

// Master data tables used by the search filters.
const (
	TableApplianceType  = "appliancetype"
	TableIndoorFeature  = "indoorfeature"
	TableOutdoorAmenity = "outdooramenity"
	TableCommunityType  = "communitytype"
	TableViewType       = "viewtype"
	TablePropertyType   = "propertytype"
	TablePropertyStatus = "propertystatus"
	TableMortgageType   = "mortgagetype"
	TableListingType    = "listingtype"
)

var FilterTables = []string{
	TableApplianceType,
	TableIndoorFeature,
	TableOutdoorAmenity,
	TableCommunityType,
	TableViewType,
	TablePropertyType,
	TablePropertyStatus,
	TableMortgageType,
	TableListingType,
}

type MasterListRequestBody struct {
	Tables []string `json:"tables"`
}

type MasterItem struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
}

// MasterData maps a table name to its entries. Tables the server omitted are
// present with an empty slice.
type MasterData map[string][]MasterItem

func (c *Client) MasterList(ctx context.Context, tables []string) (MasterData, error) {
	var respBody map[string][]MasterItem
	err := c.post(ctx, masterListPath, nil, MasterListRequestBody{Tables: tables}, &respBody)
	if err != nil {
		return nil, fmt.Errorf("can't get master list: %w", err)
	}

	data := make(MasterData, len(tables))
	for _, table := range tables {
		items := respBody[table]
		if items == nil {
			items = []MasterItem{}
		}
		data[table] = items
	}

	return data, nil
}
