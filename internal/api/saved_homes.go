package api

import (
	"context"
	"fmt"
)

type ToggleSavedHomeRequestBody struct {
	UserID     string `json:"user_id"`
	PropertyID string `json:"property_id"`
	IsSaved    bool   `json:"is_saved"`
}

func (c *Client) ToggleSavedHome(ctx context.Context, userID string, propertyID string, isSaved bool) error {
	reqBody := ToggleSavedHomeRequestBody{
		UserID:     userID,
		PropertyID: propertyID,
		IsSaved:    isSaved,
	}

	err := c.post(ctx, toggleSavedHomePath, nil, reqBody, nil)
	if err != nil {
		return fmt.Errorf("can't toggle saved home %s: %w", propertyID, err)
	}

	return nil
}
