package timesheet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
)

var defaultScopes = []string{"offline_access"}

// DefaultTenantID is the Microsoft identity platform tenant used when
// neither a tenant nor explicit endpoints are configured.
const DefaultTenantID = "common"

// AuthConfig describes how wp obtains tokens for the timesheet API.
// DeviceAuthURL and TokenURL override the endpoints derived from TenantID.
type AuthConfig struct {
	TenantID      string
	DeviceAuthURL string
	TokenURL      string
	ClientID      string
	Scopes        []string
	// TokenFile caches tokens between runs. Empty means
	// ~/.wp/auth/timesheet_tokens.json.
	TokenFile string
}

// microsoftEndpoint returns the identity platform URL for tenant.
func microsoftEndpoint(tenantID, path string) string {
	if tenantID == "" {
		tenantID = DefaultTenantID
	}
	return "https://login.microsoftonline.com/" + tenantID + "/oauth2/v2.0/" + path
}

// DefaultTokenFile returns the path to the stored token file.
func DefaultTokenFile() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".wp", "auth", "timesheet_tokens.json"), nil
}

func (a AuthConfig) tokenFile() (string, error) {
	if a.TokenFile != "" {
		return a.TokenFile, nil
	}
	return DefaultTokenFile()
}

// OAuth2 returns the oauth2.Config for the device code flow.
func (a AuthConfig) OAuth2() *oauth2.Config {
	scopes := a.Scopes
	if len(scopes) == 0 {
		scopes = defaultScopes
	}
	deviceURL, tokenURL := a.DeviceAuthURL, a.TokenURL
	if deviceURL == "" {
		deviceURL = microsoftEndpoint(a.TenantID, "devicecode")
	}
	if tokenURL == "" {
		tokenURL = microsoftEndpoint(a.TenantID, "token")
	}
	return &oauth2.Config{
		ClientID: a.ClientID,
		Scopes:   scopes,
		Endpoint: oauth2.Endpoint{
			DeviceAuthURL: deviceURL,
			TokenURL:      tokenURL,
			AuthStyle:     oauth2.AuthStyleInParams,
		},
	}
}

// LoadToken reads a cached token. A missing file yields a nil token.
func LoadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading token file: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("corrupt token file (delete %s to re-authenticate): %w", path, err)
	}
	return &tok, nil
}

// SaveToken atomically writes tok to path, readable by the owner only.
func SaveToken(path string, tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating auth directory: %w", err)
	}
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling token: %w", err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("saving token file: %w", err)
	}
	return nil
}

// Authenticate returns a token for the timesheet API: the cached one while
// valid, a refreshed one when it has a refresh token, or a new one from the
// device code flow. Sign-in instructions are written to prompt.
func Authenticate(ctx context.Context, a AuthConfig, prompt io.Writer) (*oauth2.Token, *oauth2.Config, error) {
	cfg := a.OAuth2()
	path, err := a.tokenFile()
	if err != nil {
		return nil, nil, err
	}

	tok, err := LoadToken(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		tok = nil
	}
	if tok != nil && tok.Valid() {
		return tok, cfg, nil
	}

	if tok != nil && tok.RefreshToken != "" {
		refreshed, err := cfg.TokenSource(ctx, tok).Token()
		if err == nil {
			if err := SaveToken(path, refreshed); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not save refreshed token: %v\n", err)
			}
			return refreshed, cfg, nil
		}
		fmt.Fprintf(os.Stderr, "Warning: token refresh failed (%v), signing in again\n", err)
	}

	resp, err := cfg.DeviceAuth(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("device auth request failed: %w", err)
	}
	fmt.Fprintf(prompt, "\nTo sign in to the timesheet, open %s\nand enter the code: %s\n\n", resp.VerificationURI, resp.UserCode)

	tok, err = cfg.DeviceAccessToken(ctx, resp)
	if err != nil {
		return nil, nil, fmt.Errorf("device authentication failed: %w", err)
	}
	if err := SaveToken(path, tok); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not save token: %v\n", err)
	}
	return tok, cfg, nil
}
