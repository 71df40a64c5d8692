package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/harrisonrobin/taskmate/pkg/auth"
	"github.com/harrisonrobin/taskmate/pkg/logging"
	"github.com/harrisonrobin/taskmate/pkg/rowstore"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

var spreadsheetURLRegex = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9_-]+)`)

// SpreadsheetID extracts the spreadsheet ID from a sheet URL. A bare ID is
// returned unchanged.
func SpreadsheetID(locator string) (string, error) {
	locator = strings.TrimSpace(locator)
	if locator == "" {
		return "", fmt.Errorf("%w: no spreadsheet configured", rowstore.ErrConnection)
	}
	if m := spreadsheetURLRegex.FindStringSubmatch(locator); len(m) > 1 {
		return m[1], nil
	}
	if strings.Contains(locator, "/") {
		return "", fmt.Errorf("%w: not a spreadsheet URL: %s", rowstore.ErrConnection, locator)
	}
	return locator, nil
}

// Connect authenticates with the credentials file and opens the worksheet
// named worksheet in the spreadsheet at locator. An empty worksheet selects
// the first sheet.
func Connect(ctx context.Context, credentialsPath, locator, worksheet string) (*SheetClient, error) {
	creds, err := auth.LoadCredentials(ctx, credentialsPath, auth.Scopes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", rowstore.ErrAuthentication, err)
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(auth.GetClient(ctx, creds)))
	if err != nil {
		return nil, fmt.Errorf("%w: unable to create Sheets client: %v", rowstore.ErrConnection, err)
	}
	return Open(ctx, srv, locator, worksheet)
}

// Open resolves the worksheet on an existing Sheets service.
func Open(ctx context.Context, srv *sheets.Service, locator, worksheet string) (*SheetClient, error) {
	id, err := SpreadsheetID(locator)
	if err != nil {
		return nil, err
	}

	spreadsheet, err := srv.Spreadsheets.Get(id).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return nil, classify(err)
	}
	if len(spreadsheet.Sheets) == 0 {
		return nil, fmt.Errorf("%w: spreadsheet %s has no sheets", rowstore.ErrConnection, id)
	}

	var props *sheets.SheetProperties
	if worksheet == "" {
		props = spreadsheet.Sheets[0].Properties
	} else {
		for _, s := range spreadsheet.Sheets {
			if s.Properties != nil && s.Properties.Title == worksheet {
				props = s.Properties
				break
			}
		}
	}
	if props == nil {
		return nil, fmt.Errorf("%w: worksheet '%s' not found", rowstore.ErrConnection, worksheet)
	}

	logging.Component("sheets").Debug().
		Str("spreadsheet", id).
		Str("worksheet", props.Title).
		Msg("connected")
	return NewSheetClient(srv, id, props.SheetId, props.Title), nil
}

// classify maps a failed call made while connecting onto the rowstore
// connection errors.
func classify(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return fmt.Errorf("%w: %v", rowstore.ErrAuthentication, err)
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %v", rowstore.ErrAuthentication, err)
		case http.StatusNotFound:
			return fmt.Errorf("%w: spreadsheet not found: %v", rowstore.ErrConnection, err)
		}
	}
	return fmt.Errorf("%w: %v", rowstore.ErrConnection, err)
}
