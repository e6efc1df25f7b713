package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mishannn/homesearch-go/internal/api"
	"github.com/mishannn/homesearch-go/internal/filter"
)

func TestApplySearchConfig(t *testing.T) {
	cfg := defaultConfig()
	cfg.Search.Sort = "low_to_high"
	cfg.Search.Price = &filter.Range{Min: 500000, Max: 200000}
	cfg.Search.Beds = &filter.Range{Min: 2, Max: 4}
	cfg.Search.PropertyTypes = []string{"villa", "d3b1b0c2-0000-4000-8000-000000000001"}
	cfg.Search.More = &filter.MoreFilters{MaxHOA: "$300"}

	masterData := api.MasterData{
		api.TablePropertyType: {{UUID: "villa-uuid", Name: "Villa"}},
	}

	state := filter.NewState(zap.NewNop(), cfg.Search.Query)
	require.NoError(t, applySearchConfig(state, cfg, masterData))

	c := state.Criteria()
	assert.Equal(t, filter.SortLowToHigh, c.Sort)
	assert.Equal(t, filter.Range{Min: 200000, Max: 500000}, c.Price)
	assert.Equal(t, filter.Range{Min: 2, Max: 4}, c.BedsBaths.Beds)
	assert.Equal(t, filter.DefaultBaths, c.BedsBaths.Baths)
	assert.Equal(t, []string{"villa-uuid", "d3b1b0c2-0000-4000-8000-000000000001"}, c.PropertyTypes)
	assert.Equal(t, "$300", c.More.MaxHOA)
	assert.Equal(t, filter.DefaultParking, c.More.Parking)
	assert.Equal(t, filter.DefaultLotSqft, c.More.LotSqft)

	assert.False(t, state.Price.IsOpen())
	assert.False(t, state.More.IsOpen())
}

func TestApplySearchConfigDefaults(t *testing.T) {
	state := filter.NewState(zap.NewNop(), "")
	require.NoError(t, applySearchConfig(state, defaultConfig(), nil))

	assert.True(t, state.Criteria().Equal(filter.DefaultCriteria()))
}

func TestResolveMasterID(t *testing.T) {
	masterData := api.MasterData{
		api.TablePropertyType: {{UUID: "u1", Name: "Condo"}},
	}

	assert.Equal(t, "u1", resolveMasterID(masterData, api.TablePropertyType, "condo"))
	assert.Equal(t, "other", resolveMasterID(masterData, api.TablePropertyType, "other"))
	assert.Equal(t, "x", resolveMasterID(nil, api.TablePropertyType, "x"))
}
