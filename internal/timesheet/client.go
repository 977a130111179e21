package timesheet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/Tiliavir/weekly-punch/internal/model"
	"github.com/Tiliavir/weekly-punch/internal/timecalc"
)

// Client is an authenticated timesheet API client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	loc        *time.Location
}

// NewClient creates a timesheet client using the provided token and config.
// Refreshed tokens are written to tokenFile.
func NewClient(ctx context.Context, baseURL string, tok *oauth2.Token, cfg *oauth2.Config, tokenFile string) *Client {
	ts := &savingTokenSource{ts: cfg.TokenSource(ctx, tok), path: tokenFile, last: tok.AccessToken}
	return NewClientWithHTTP(oauth2.NewClient(ctx, ts), baseURL)
}

// NewClientWithHTTP creates a client on top of an existing HTTP client.
// Dates are interpreted in local time.
func NewClientWithHTTP(httpClient *http.Client, baseURL string) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		loc:        time.Local,
	}
}

// savingTokenSource persists a token whenever the wrapped source refreshes it.
type savingTokenSource struct {
	ts   oauth2.TokenSource
	path string
	last string
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.ts.Token()
	if err != nil {
		return nil, err
	}
	if tok.AccessToken != s.last && s.path != "" {
		if err := SaveToken(s.path, tok); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not save refreshed token: %v\n", err)
		}
		s.last = tok.AccessToken
	}
	return tok, nil
}

// RemoteCheckpoint is a checkpoint as the timesheet API reports it.
type RemoteCheckpoint struct {
	In  string `json:"in"`
	Out string `json:"out"`
	// OutPending marks a placeholder out slot the timesheet shows for a
	// shift that has not been closed yet.
	OutPending bool `json:"out_pending"`
}

// RemoteDay is one day column of a timesheet page.
type RemoteDay struct {
	Date        string             `json:"date"` // "2006-01-02" or "02_01_2006"
	Checkpoints []RemoteCheckpoint `json:"checkpoints"`
}

// WeekPage is the API response for one page.
type WeekPage struct {
	Days []RemoteDay `json:"days"`
}

// GetPage fetches the page offset pages away from the current one.
// A 404 answer means the page does not exist and yields model.ErrNoPage.
func (c *Client) GetPage(ctx context.Context, offset int) (WeekPage, error) {
	endpoint := fmt.Sprintf("%s/pages?offset=%s", c.baseURL, url.QueryEscape(strconv.Itoa(offset)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return WeekPage{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return WeekPage{}, fmt.Errorf("timesheet request failed: %w", err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return WeekPage{}, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return WeekPage{}, model.ErrNoPage
	}
	if resp.StatusCode != http.StatusOK {
		return WeekPage{}, fmt.Errorf("timesheet API error %d: %s", resp.StatusCode, string(body))
	}

	var page WeekPage
	if err := json.Unmarshal(body, &page); err != nil {
		return WeekPage{}, fmt.Errorf("decoding timesheet response: %w", err)
	}
	return page, nil
}

// Page fetches and maps one page, so a Client can serve as an engine source.
func (c *Client) Page(ctx context.Context, offset int) (model.Page, error) {
	remote, err := c.GetPage(ctx, offset)
	if err != nil {
		return model.Page{}, err
	}
	return MapPage(remote, c.loc)
}

// normalizeClock re-renders a label as zero-padded HH:MM.
func normalizeClock(label string) (string, error) {
	h, m, err := timecalc.ParseClock(label)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d:%02d", h, m), nil
}

// MapDay converts a remote day into the engine's model. Placeholder and
// empty out slots leave the shift open.
func MapDay(rd RemoteDay, loc *time.Location) (model.Day, error) {
	date, err := timecalc.ParseDate(rd.Date, loc)
	if err != nil {
		return model.Day{}, err
	}
	day := model.Day{Date: date, Checkpoints: make([]model.Checkpoint, 0, len(rd.Checkpoints))}
	for i, rc := range rd.Checkpoints {
		in, err := normalizeClock(rc.In)
		if err != nil {
			return model.Day{}, fmt.Errorf("%s checkpoint %d: %w", rd.Date, i, err)
		}
		cp := model.Checkpoint{In: in}
		if rc.Out != "" && !rc.OutPending {
			out, err := normalizeClock(rc.Out)
			if err != nil {
				return model.Day{}, fmt.Errorf("%s checkpoint %d: %w", rd.Date, i, err)
			}
			cp.Out = &out
		}
		day.Checkpoints = append(day.Checkpoints, cp)
	}
	return day, nil
}

// MapPage converts every day of a remote page.
func MapPage(wp WeekPage, loc *time.Location) (model.Page, error) {
	page := model.Page{Days: make([]model.Day, 0, len(wp.Days))}
	for _, rd := range wp.Days {
		day, err := MapDay(rd, loc)
		if err != nil {
			return model.Page{}, err
		}
		page.Days = append(page.Days, day)
	}
	return page, nil
}
