package main

import (
	"database/sql"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/mishannn/homesearch-go/internal/listing"
)

type listingKey struct {
	PropertyType string
	Bedrooms     int
}

type listingStatItem struct {
	Search       string  `json:"search"`
	PropertyType string  `json:"property_type"`
	Bedrooms     int     `json:"bedrooms"`
	Count        int     `json:"count"`
	MedianPrice  float64 `json:"median_price_per_sqft"`
}

func getListingStatistic(logger *zap.Logger, search string, listings []listing.Listing) []listingStatItem {
	grouped := make(map[listingKey][]float64)
	for _, l := range listings {
		if l.Area <= 0 || l.Price <= 0 {
			logger.Debug("skip listing without price or area", zap.String("id", l.ID))
			continue
		}

		propertyType := l.PropertyType
		if propertyType == "" {
			propertyType = "unknown"
		}

		key := listingKey{PropertyType: propertyType, Bedrooms: l.Bedrooms}
		grouped[key] = append(grouped[key], l.Price/l.Area)
	}

	items := make([]listingStatItem, 0, len(grouped))
	for key, value := range grouped {
		sort.Float64s(value)

		items = append(items, listingStatItem{
			Search:       search,
			PropertyType: key.PropertyType,
			Bedrooms:     key.Bedrooms,
			Count:        len(value),
			MedianPrice:  stat.Quantile(0.5, stat.Empirical, value, nil),
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].PropertyType == items[j].PropertyType {
			return items[i].Bedrooms < items[j].Bedrooms
		}
		return items[i].PropertyType < items[j].PropertyType
	})

	return items
}

func saveStatistic(db *sql.DB, timestamp time.Time, statistic []listingStatItem) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("can't begin statistic tx: %w", err)
	}
	defer tx.Rollback()

	batch, err := tx.Prepare("INSERT INTO listing_median_price (date_time, search, property_type, bedrooms, listings_count, price_per_sqft) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("can't prepare statistic SQL: %w", err)
	}

	for _, row := range statistic {
		_, err := batch.Exec(timestamp.UTC(), row.Search, row.PropertyType, row.Bedrooms, row.Count, row.MedianPrice)
		if err != nil {
			return fmt.Errorf("can't write statistic row: %w", err)
		}
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("can't write statistic data: %w", err)
	}

	return nil
}
