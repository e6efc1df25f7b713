package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

type sheetsExporter struct {
	srv           *sheets.Service
	spreadsheetID string
	dataRange     string
}

func newSheetsExporter(ctx context.Context, credentialsFilePath string, spreadsheetID string, dataRange string) (*sheetsExporter, error) {
	credentialsJSON, err := os.ReadFile(credentialsFilePath)
	if err != nil {
		return nil, fmt.Errorf("can't read credentials file: %w", err)
	}

	creds, err := google.CredentialsFromJSON(ctx, credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("can't load service account credentials: %w", err)
	}

	srv, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("can't create sheets service: %w", err)
	}

	return &sheetsExporter{
		srv:           srv,
		spreadsheetID: spreadsheetID,
		dataRange:     dataRange,
	}, nil
}

// statisticRows lays out one sheet row per group. Prices are rounded to
// cents so the sheet does not show float noise.
func statisticRows(t time.Time, data []listingStatItem) [][]any {
	rows := make([][]any, 0, len(data))
	stamp := t.UTC().Format(time.DateTime)

	for _, item := range data {
		rows = append(rows, []any{
			stamp,
			item.Search,
			item.PropertyType,
			item.Bedrooms,
			item.Count,
			float64(int64(item.MedianPrice*100+0.5)) / 100,
		})
	}

	return rows
}

func (e *sheetsExporter) appendStatistic(ctx context.Context, t time.Time, data []listingStatItem) (int, error) {
	rows := statisticRows(t, data)
	if len(rows) == 0 {
		return 0, nil
	}

	resp, err := e.srv.Spreadsheets.Values.
		Append(e.spreadsheetID, e.dataRange, &sheets.ValueRange{Values: rows}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("can't append statistic to %s: %w", e.dataRange, err)
	}

	if resp.Updates != nil {
		return int(resp.Updates.UpdatedRows), nil
	}

	return len(rows), nil
}
