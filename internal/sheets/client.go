package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	errx "github.com/peoplebot-poc/server/internal/core/error"
	"github.com/peoplebot-poc/server/internal/people"
	logx "github.com/peoplebot-poc/server/pkg/logger"
)

// Config describes the People spreadsheet and the cache in front of it.
type Config struct {
	SheetID         string `envconfig:"SHEET_ID" required:"true"`
	RangePeople     string `envconfig:"RANGE_PEOPLE" default:"People!A2:K"`
	CredentialsFile string `envconfig:"GOOGLE_APPLICATION_CREDENTIALS"`
	CacheTTLMS      int    `envconfig:"CACHE_TTL_MS" default:"60000"`
}

// headerCount is the fixed ordered schema of the People range:
// person_id, full_name, preferred_name, school, department, email, phone,
// locale, profile_doc_id, profile_text, last_updated.
const headerCount = 11

// Client reads the People table through the Google Sheets API.
type Client struct {
	svc       *sheetsapi.Service
	sheetID   string
	readRange string
}

// NewClient builds an authenticated read-only Sheets client. Credentials
// come from the configured service-account file, or application default
// credentials when none is set.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	opts := []option.ClientOption{option.WithScopes(sheetsapi.SpreadsheetsReadonlyScope)}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Client{
		svc:       svc,
		sheetID:   cfg.SheetID,
		readRange: cfg.RangePeople,
	}, nil
}

// FetchPeople reads the configured range and converts the rows into person
// records. Short rows are dropped with a warning; transport errors surface
// as table-fetch AppErrors.
func (c *Client) FetchPeople(ctx context.Context) ([]people.PersonRecord, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.sheetID, c.readRange).Context(ctx).Do()
	if err != nil {
		logx.Error().Err(err).Str("sheet_id", c.sheetID).Msg("failed to read people range")
		return nil, errx.WrapSheets(err)
	}
	records := parseRows(resp.Values)
	logx.Info().Int("rows", len(resp.Values)).Int("records", len(records)).Msg("fetched people table")
	return records, nil
}

// parseRows maps raw sheet rows onto the fixed 11-field schema. Any row with
// fewer cells than the schema is skipped, not fatal.
func parseRows(rows [][]any) []people.PersonRecord {
	records := make([]people.PersonRecord, 0, len(rows))
	for i, row := range rows {
		if len(row) < headerCount {
			logx.Warn().Int("row", i).Int("cells", len(row)).Msg("skipping incomplete people row")
			continue
		}
		records = append(records, people.PersonRecord{
			PersonID:      cell(row, 0),
			FullName:      cell(row, 1),
			PreferredName: cell(row, 2),
			School:        cell(row, 3),
			Department:    cell(row, 4),
			Email:         cell(row, 5),
			Phone:         cell(row, 6),
			Locale:        cell(row, 7),
			ProfileDocID:  cell(row, 8),
			ProfileText:   cell(row, 9),
			LastUpdated:   cell(row, 10),
		})
	}
	return records
}

func cell(row []any, i int) string {
	if i >= len(row) || row[i] == nil {
		return ""
	}
	if s, ok := row[i].(string); ok {
		return s
	}
	return fmt.Sprint(row[i])
}
