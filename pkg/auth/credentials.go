package auth

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"
)

const (
	// CredentialsFile is the default name of the Google credentials JSON,
	// looked up in the taskmate config directory. A service account key is
	// expected; an authorized_user file from gcloud works too.
	CredentialsFile = "credentials.json"

	xdgAppName = "taskmate"
)

// Scopes needed to read and edit the task sheet.
var Scopes = []string{sheets.SpreadsheetsScope}

// CredentialsPath resolves path, falling back to CredentialsFile in the
// config directory when path is empty.
func CredentialsPath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	xdgConfigBase, err := GetXdgHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(xdgConfigBase, CredentialsFile), nil
}

// LoadCredentials reads a credentials JSON file for the given scopes.
func LoadCredentials(ctx context.Context, path string, scopes []string) (*google.Credentials, error) {
	path, err := CredentialsPath(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file %s: %w", path, err)
	}
	return ParseCredentials(ctx, b, scopes)
}

// ParseCredentials builds credentials from the raw JSON of a service account
// key (or authorized_user file).
func ParseCredentials(ctx context.Context, b []byte, scopes []string) (*google.Credentials, error) {
	creds, err := google.CredentialsFromJSON(ctx, b, scopes...)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %w", err)
	}
	return creds, nil
}

// GetClient returns an *http.Client that attaches and refreshes tokens for
// creds.
func GetClient(ctx context.Context, creds *google.Credentials) *http.Client {
	return oauth2.NewClient(ctx, creds.TokenSource)
}

// GetXdgHome returns the taskmate config directory.
func GetXdgHome() (string, error) {
	xdgHome, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(xdgHome, ".config", xdgAppName), nil
}
