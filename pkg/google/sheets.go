// Package google stores task rows in a Google Sheets worksheet.
package google

import (
	"context"
	"fmt"
	"strings"

	"github.com/harrisonrobin/taskmate/pkg/logging"
	"github.com/harrisonrobin/taskmate/pkg/rowstore"
	"google.golang.org/api/sheets/v4"
)

const (
	valueRender = "FORMATTED_VALUE"
	valueInput  = "RAW"
)

// SheetClient is a rowstore.Store over one worksheet.
type SheetClient struct {
	srv           *sheets.Service
	spreadsheetID string
	sheetID       int64
	title         string
	log           *logging.Logger
}

// NewSheetClient creates a client for an already resolved worksheet.
func NewSheetClient(srv *sheets.Service, spreadsheetID string, sheetID int64, title string) *SheetClient {
	return &SheetClient{
		srv:           srv,
		spreadsheetID: spreadsheetID,
		sheetID:       sheetID,
		title:         title,
		log:           logging.Component("sheets"),
	}
}

// Title returns the worksheet title.
func (c *SheetClient) Title() string {
	return c.title
}

// a1 builds an A1 range on this worksheet, e.g. 'Tasks'!A2:D2.
func (c *SheetClient) a1(cells string) string {
	return fmt.Sprintf("'%s'!%s", strings.ReplaceAll(c.title, "'", "''"), cells)
}

func columnLetter(column int) string {
	return string(rune('A' + column - 1))
}

func (c *SheetClient) get(ctx context.Context, op, cells string) ([][]interface{}, error) {
	vr, err := c.srv.Spreadsheets.Values.Get(c.spreadsheetID, c.a1(cells)).
		ValueRenderOption(valueRender).
		Context(ctx).
		Do()
	if err != nil {
		return nil, &rowstore.ReadError{Op: op, Err: err}
	}
	c.log.Debug().Str("op", op).Str("range", cells).Int("rows", len(vr.Values)).Msg("read")
	return vr.Values, nil
}

func cellsToStrings(cells []interface{}) []string {
	out := make([]string, len(cells))
	for i, v := range cells {
		if v != nil {
			out[i] = fmt.Sprint(v)
		}
	}
	return rowstore.Pad(out)
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

// FindRow scans the description column for an exact match.
func (c *SheetClient) FindRow(ctx context.Context, description string) (int, error) {
	rows, err := c.get(ctx, "find", "A:A")
	if err != nil {
		return rowstore.NotFound, err
	}
	for i, r := range rows {
		row := i + 1
		if row < rowstore.FirstDataRow || len(r) == 0 {
			continue
		}
		if fmt.Sprint(r[0]) == description {
			return row, nil
		}
	}
	return rowstore.NotFound, nil
}

// Row returns one row's values.
func (c *SheetClient) Row(ctx context.Context, row int) ([]string, error) {
	rows, err := c.get(ctx, "read row", fmt.Sprintf("A%d:D%d", row, row))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return rowstore.Pad(nil), nil
	}
	return cellsToStrings(rows[0]), nil
}

// ReadAll returns every row below the header.
func (c *SheetClient) ReadAll(ctx context.Context) ([]rowstore.Row, error) {
	rows, err := c.get(ctx, "read all", "A:D")
	if err != nil {
		return nil, err
	}
	var out []rowstore.Row
	for i, r := range rows {
		position := i + 1
		if position < rowstore.FirstDataRow {
			continue
		}
		out = append(out, rowstore.Row{Position: position, Values: cellsToStrings(r)})
	}
	return out, nil
}

// WriteCell updates a single cell.
func (c *SheetClient) WriteCell(ctx context.Context, row, column int, value string) error {
	if err := rowstore.ValidCell(row, column); err != nil {
		return &rowstore.WriteError{Op: "write cell", Row: row, Column: column, Err: err}
	}
	cell := fmt.Sprintf("%s%d", columnLetter(column), row)
	_, err := c.srv.Spreadsheets.Values.Update(c.spreadsheetID, c.a1(cell), &sheets.ValueRange{
		Values: [][]interface{}{{value}},
	}).ValueInputOption(valueInput).Context(ctx).Do()
	if err != nil {
		return &rowstore.WriteError{Op: "write cell", Row: row, Column: column, Err: err}
	}
	c.log.Debug().Str("cell", cell).Msg("cell updated")
	return nil
}

// InsertRow opens an empty row at position and fills it with values.
func (c *SheetClient) InsertRow(ctx context.Context, position int, values []string) error {
	if position < rowstore.FirstDataRow {
		return &rowstore.WriteError{Op: "insert", Row: position, Err: fmt.Errorf("row %d is not a data row", position)}
	}

	insert := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			InsertDimension: &sheets.InsertDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:         c.sheetID,
					Dimension:       "ROWS",
					StartIndex:      int64(position - 1),
					EndIndex:        int64(position),
					ForceSendFields: []string{"SheetId"},
				},
			},
		}},
	}
	if _, err := c.srv.Spreadsheets.BatchUpdate(c.spreadsheetID, insert).Context(ctx).Do(); err != nil {
		return &rowstore.WriteError{Op: "insert", Row: position, Err: err}
	}

	cells := fmt.Sprintf("A%d:D%d", position, position)
	_, err := c.srv.Spreadsheets.Values.Update(c.spreadsheetID, c.a1(cells), &sheets.ValueRange{
		Values: [][]interface{}{toCells(rowstore.Pad(values))},
	}).ValueInputOption(valueInput).Context(ctx).Do()
	if err != nil {
		return &rowstore.WriteError{Op: "insert", Row: position, Err: err}
	}
	c.log.Debug().Int("row", position).Msg("row inserted")
	return nil
}

var _ rowstore.Store = (*SheetClient)(nil)
