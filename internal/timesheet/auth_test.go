package timesheet_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"github.com/Tiliavir/weekly-punch/internal/timesheet"
)

func TestAuthConfigEndpoints(t *testing.T) {
	cfg := timesheet.AuthConfig{TenantID: "contoso", ClientID: "wp"}.OAuth2()
	if want := "https://login.microsoftonline.com/contoso/oauth2/v2.0/devicecode"; cfg.Endpoint.DeviceAuthURL != want {
		t.Errorf("DeviceAuthURL = %q, want %q", cfg.Endpoint.DeviceAuthURL, want)
	}
	if want := "https://login.microsoftonline.com/contoso/oauth2/v2.0/token"; cfg.Endpoint.TokenURL != want {
		t.Errorf("TokenURL = %q, want %q", cfg.Endpoint.TokenURL, want)
	}
	if len(cfg.Scopes) != 1 || cfg.Scopes[0] != "offline_access" {
		t.Errorf("Scopes = %v, want [offline_access]", cfg.Scopes)
	}

	cfg = timesheet.AuthConfig{
		DeviceAuthURL: "https://id.example.com/device",
		TokenURL:      "https://id.example.com/token",
		Scopes:        []string{"timesheet.read"},
	}.OAuth2()
	if cfg.Endpoint.DeviceAuthURL != "https://id.example.com/device" || cfg.Endpoint.TokenURL != "https://id.example.com/token" {
		t.Errorf("Endpoint = %+v, want the configured URLs", cfg.Endpoint)
	}
	if cfg.Scopes[0] != "timesheet.read" {
		t.Errorf("Scopes = %v, want [timesheet.read]", cfg.Scopes)
	}
}

func TestSaveAndLoadToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auth", "tokens.json")

	tok, err := timesheet.LoadToken(path)
	if err != nil || tok != nil {
		t.Fatalf("LoadToken (missing) = %v, %v, want nil, nil", tok, err)
	}

	want := &oauth2.Token{AccessToken: "a1", RefreshToken: "r1", Expiry: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)}
	if err := timesheet.SaveToken(path, want); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("token file mode = %v, want 0600", perm)
	}

	got, err := timesheet.LoadToken(path)
	if err != nil {
		t.Fatalf("LoadToken: %v", err)
	}
	if got.AccessToken != "a1" || got.RefreshToken != "r1" || !got.Expiry.Equal(want.Expiry) {
		t.Errorf("LoadToken = %+v, want %+v", got, want)
	}

	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := timesheet.LoadToken(path); err == nil {
		t.Error("LoadToken: expected error for corrupt file")
	}
}

// identityServer answers the device code and token endpoints of a fake
// OAuth2 provider. Every token request is checked against grantType.
func identityServer(t *testing.T, grantType string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		if got := r.Form.Get("client_id"); got != "wp" {
			t.Errorf("client_id = %q, want wp", got)
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/device":
			_, _ = w.Write([]byte(`{"device_code":"dev-1","user_code":"ABCD-EFGH","verification_uri":"https://id.example.com/activate","expires_in":300,"interval":1}`))
		case "/token":
			if got := r.Form.Get("grant_type"); got != grantType {
				t.Errorf("grant_type = %q, want %q", got, grantType)
			}
			_, _ = w.Write([]byte(`{"access_token":"a2","token_type":"Bearer","refresh_token":"r2","expires_in":3600}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func authConfig(srv *httptest.Server, tokenFile string) timesheet.AuthConfig {
	return timesheet.AuthConfig{
		DeviceAuthURL: srv.URL + "/device",
		TokenURL:      srv.URL + "/token",
		ClientID:      "wp",
		TokenFile:     tokenFile,
	}
}

func TestAuthenticateUsesCachedToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
	}))
	t.Cleanup(srv.Close)

	path := filepath.Join(t.TempDir(), "tokens.json")
	cached := &oauth2.Token{AccessToken: "a1", Expiry: time.Now().Add(time.Hour)}
	if err := timesheet.SaveToken(path, cached); err != nil {
		t.Fatal(err)
	}

	tok, _, err := timesheet.Authenticate(context.Background(), authConfig(srv, path), &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if tok.AccessToken != "a1" {
		t.Errorf("AccessToken = %q, want a1", tok.AccessToken)
	}
}

func TestAuthenticateRefreshesExpiredToken(t *testing.T) {
	srv := identityServer(t, "refresh_token")
	path := filepath.Join(t.TempDir(), "tokens.json")
	expired := &oauth2.Token{AccessToken: "a1", RefreshToken: "r1", Expiry: time.Now().Add(-time.Hour)}
	if err := timesheet.SaveToken(path, expired); err != nil {
		t.Fatal(err)
	}

	tok, _, err := timesheet.Authenticate(context.Background(), authConfig(srv, path), &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if tok.AccessToken != "a2" {
		t.Errorf("AccessToken = %q, want a2", tok.AccessToken)
	}
	saved, err := timesheet.LoadToken(path)
	if err != nil || saved.AccessToken != "a2" || saved.RefreshToken != "r2" {
		t.Errorf("saved token = %+v, %v, want a2/r2", saved, err)
	}
}

func TestAuthenticateDeviceFlow(t *testing.T) {
	srv := identityServer(t, "urn:ietf:params:oauth:grant-type:device_code")
	path := filepath.Join(t.TempDir(), "auth", "tokens.json")

	var prompt bytes.Buffer
	tok, _, err := timesheet.Authenticate(context.Background(), authConfig(srv, path), &prompt)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if tok.AccessToken != "a2" {
		t.Errorf("AccessToken = %q, want a2", tok.AccessToken)
	}
	if !strings.Contains(prompt.String(), "ABCD-EFGH") || !strings.Contains(prompt.String(), "https://id.example.com/activate") {
		t.Errorf("prompt = %q, want the user code and verification URI", prompt.String())
	}
	if saved, err := timesheet.LoadToken(path); err != nil || saved == nil || saved.AccessToken != "a2" {
		t.Errorf("saved token = %+v, %v, want a2", saved, err)
	}
}
