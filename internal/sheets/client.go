// internal/sheets/client.go
//
// Google Sheets collaborator: the building registry lives in a spreadsheet
// the leasing team edits, and every cycle writes its results back for human
// review.  All access goes through a service account credentials file.
//
// Nothing here is on the scrape's critical path; the batch cycle treats
// every error from this package as log-and-continue.  The sheets-sync and
// validate-building commands return these errors to the caller.

package sheets

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// Tabs carries the tab names, overridable from config.
type Tabs struct {
	Registry     string
	Status       string
	Availability string
	Validation   string
}

// DefaultTabs matches the production spreadsheet.
var DefaultTabs = Tabs{
	Registry:     "Buildings",
	Status:       "Scrape Status",
	Availability: "Availability",
	Validation:   "Validation",
}

// Client wraps one spreadsheet plus the DB it syncs against.
type Client struct {
	svc           *sheetsapi.Service
	db            *sqlx.DB
	spreadsheetID string
	tabs          Tabs
}

// New builds a Client from a service-account credentials file.
func New(ctx context.Context, db *sqlx.DB, spreadsheetID, credentialsFile string, tabs Tabs) (*Client, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("sheets: spreadsheet id is empty")
	}
	svc, err := sheetsapi.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheetsapi.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheets: build service: %w", err)
	}
	if tabs.Registry == "" {
		tabs = DefaultTabs
	}
	return &Client{svc: svc, db: db, spreadsheetID: spreadsheetID, tabs: tabs}, nil
}

// readTab fetches every data row below the header of one tab.
func (c *Client) readTab(ctx context.Context, tab, span string) ([][]interface{}, error) {
	resp, err := c.svc.Spreadsheets.Values.
		Get(c.spreadsheetID, fmt.Sprintf("%s!%s", tab, span)).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets: read %s: %w", tab, err)
	}
	return resp.Values, nil
}

// replaceTab clears a tab and writes rows (header included) in one bulk
// update.
func (c *Client) replaceTab(ctx context.Context, tab string, rows [][]interface{}) error {
	if _, err := c.svc.Spreadsheets.Values.
		Clear(c.spreadsheetID, tab, &sheetsapi.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("sheets: clear %s: %w", tab, err)
	}
	_, err := c.svc.Spreadsheets.Values.
		Update(c.spreadsheetID, fmt.Sprintf("%s!A1", tab), &sheetsapi.ValueRange{Values: rows}).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sheets: write %s: %w", tab, err)
	}
	return nil
}
