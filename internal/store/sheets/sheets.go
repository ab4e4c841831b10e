// Package sheets implements the Store port on a Google Spreadsheet, one tab
// per record kind. A row is id | createdAt | partition | JSON fields.
package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"google.golang.org/api/googleapi"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"lovespace/internal/core"
	"lovespace/internal/store"
)

// cellLimit is the spreadsheet's hard cap on characters per cell. Anything
// over it is rejected before we ever hit the API.
const cellLimit = 50000

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string

	mu       sync.Mutex
	sheetIDs map[string]int64 // tab title -> sheet id, filled lazily
}

var _ store.Store = (*Client)(nil)

// NewFromEnv creates a sheets-backed store from environment variables.
// Required: GOOGLE_SPREADSHEET_ID, plus service account credentials via
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetIDs:      make(map[string]int64),
	}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	inline := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	file := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if inline == "" && file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case inline != "":
		credentialsJSON = []byte(inline)
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return svc, nil
}

func (c *Client) Query(ctx context.Context, kind store.Kind, partition string) ([]store.Object, error) {
	rows, err := c.readRows(ctx, kind)
	if err != nil {
		return nil, err
	}
	var out []store.Object
	for _, r := range rows {
		if r.partition != partition {
			continue
		}
		out = append(out, store.Object{ID: r.id, CreatedAt: r.createdAt, Fields: r.fields})
	}
	if len(out) == 0 {
		return nil, store.ErrNotFound
	}
	// Rows append oldest first; callers expect newest first.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (c *Client) Save(ctx context.Context, kind store.Kind, partition string, fields map[string]any) (store.Object, error) {
	payload, err := encodeFields(fields)
	if err != nil {
		return store.Object{}, err
	}

	obj := store.Object{
		ID:        uuid.New().String(),
		CreatedAt: core.FormatTimestamp(time.Now()),
		Fields:    fields,
	}

	// Find the next empty row from the id column, then write the row
	// explicitly. Append with USER_ENTERED can reinterpret cell types.
	rng := fmt.Sprintf("%s!A:A", kind)
	nextRow := 1
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	switch {
	case isMissingSheet(err):
		// First record of this kind: provision the tab.
		if err := c.addSheet(ctx, string(kind)); err != nil {
			return store.Object{}, err
		}
	case err != nil:
		return store.Object{}, fmt.Errorf("read %s: %w", rng, err)
	default:
		nextRow = len(resp.Values) + 1
	}

	dataRange := fmt.Sprintf("%s!A%d:D%d", kind, nextRow, nextRow)
	vr := &gsheet.ValueRange{Values: [][]any{{obj.ID, obj.CreatedAt, partition, payload}}}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, dataRange, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return store.Object{}, fmt.Errorf("write %s: %w", dataRange, err)
	}
	return obj, nil
}

func (c *Client) Update(ctx context.Context, kind store.Kind, partition, id string, fields map[string]any) error {
	rows, err := c.readRows(ctx, kind)
	if err != nil {
		return err
	}
	for _, r := range rows {
		if r.id != id || r.partition != partition {
			continue
		}
		for k, v := range fields {
			r.fields[k] = v
		}
		payload, err := encodeFields(r.fields)
		if err != nil {
			return err
		}
		cell := fmt.Sprintf("%s!D%d", kind, r.rowNum)
		vr := &gsheet.ValueRange{Values: [][]any{{payload}}}
		_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, cell, vr).
			ValueInputOption("RAW").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("write %s: %w", cell, err)
		}
		return nil
	}
	return store.ErrNotFound
}

func (c *Client) Destroy(ctx context.Context, kind store.Kind, partition, id string) error {
	rows, err := c.readRows(ctx, kind)
	if err != nil {
		return err
	}
	for _, r := range rows {
		if r.id != id || r.partition != partition {
			continue
		}
		sheetID, err := c.sheetID(ctx, string(kind))
		if err != nil {
			return err
		}
		req := &gsheet.BatchUpdateSpreadsheetRequest{
			Requests: []*gsheet.Request{{
				DeleteDimension: &gsheet.DeleteDimensionRequest{
					Range: &gsheet.DimensionRange{
						SheetId:    sheetID,
						Dimension:  "ROWS",
						StartIndex: int64(r.rowNum - 1),
						EndIndex:   int64(r.rowNum),
					},
				},
			}},
		}
		if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
			return fmt.Errorf("delete row %d in %s: %w", r.rowNum, kind, err)
		}
		return nil
	}
	return store.ErrNotFound
}

type row struct {
	rowNum    int // 1-based spreadsheet row
	id        string
	createdAt string
	partition string
	fields    map[string]any
}

// isMissingSheet reports whether the API rejected a range because the
// kind's tab does not exist yet. Tabs are provisioned lazily on first
// write, so this reads as "no records", not as a backend failure.
func isMissingSheet(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == 400 && strings.Contains(apiErr.Message, "Unable to parse range")
}

func (c *Client) readRows(ctx context.Context, kind store.Kind) ([]row, error) {
	rng := fmt.Sprintf("%s!A:D", kind)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if isMissingSheet(err) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	var out []row
	for i, cells := range resp.Values {
		if len(cells) < 4 {
			continue
		}
		r := row{
			rowNum:    i + 1,
			id:        strings.TrimSpace(fmt.Sprint(cells[0])),
			createdAt: strings.TrimSpace(fmt.Sprint(cells[1])),
			partition: strings.TrimSpace(fmt.Sprint(cells[2])),
		}
		if r.id == "" {
			continue
		}
		if err := json.Unmarshal([]byte(fmt.Sprint(cells[3])), &r.fields); err != nil {
			// A malformed row must not hide the rest of the partition.
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (c *Client) addSheet(ctx context.Context, title string) error {
	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{
				Properties: &gsheet.SheetProperties{Title: title},
			},
		}},
	}
	resp, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("create sheet %s: %w", title, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range resp.Replies {
		if r.AddSheet != nil && r.AddSheet.Properties != nil {
			c.sheetIDs[r.AddSheet.Properties.Title] = r.AddSheet.Properties.SheetId
		}
	}
	return nil
}

func (c *Client) sheetID(ctx context.Context, title string) (int64, error) {
	c.mu.Lock()
	if id, ok := c.sheetIDs[title]; ok {
		c.mu.Unlock()
		return id, nil
	}
	c.mu.Unlock()

	meta, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("spreadsheet metadata: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, sh := range meta.Sheets {
		if sh.Properties != nil {
			c.sheetIDs[sh.Properties.Title] = sh.Properties.SheetId
		}
	}
	id, ok := c.sheetIDs[title]
	if !ok {
		return 0, fmt.Errorf("no sheet named %q", title)
	}
	return id, nil
}

func encodeFields(fields map[string]any) (string, error) {
	for k, v := range fields {
		if s, ok := v.(string); ok && len(s) > cellLimit {
			return "", fmt.Errorf("field %s: %w", k, store.ErrTooLarge)
		}
	}
	b, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("encode fields: %w", err)
	}
	if len(b) > cellLimit {
		return "", fmt.Errorf("row payload: %w", store.ErrTooLarge)
	}
	return string(b), nil
}
