package clock

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// HTTPSource fetches time from a JSON endpoint shaped like worldtimeapi.org:
// it reads "utc_datetime" (RFC 3339), falling back to "datetime" and then
// "unixtime".
type HTTPSource struct {
	url    string
	client *http.Client
}

// NewHTTPSource builds a source for url. A zero timeout leaves the request
// unbounded.
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (s *HTTPSource) Name() string { return "http" }

type timeResponse struct {
	UTCDatetime string          `json:"utc_datetime"`
	Datetime    string          `json:"datetime"`
	Unixtime    json.RawMessage `json:"unixtime"`
}

func (s *HTTPSource) Now(ctx context.Context) (time.Time, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return time.Time{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return time.Time{}, fmt.Errorf("fetch time: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return time.Time{}, fmt.Errorf("fetch time: unexpected status %s", resp.Status)
	}

	var body timeResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		return time.Time{}, fmt.Errorf("decode time response: %w", err)
	}
	return body.parse()
}

func (r timeResponse) parse() (time.Time, error) {
	for _, v := range []string{r.UTCDatetime, r.Datetime} {
		if v == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse datetime %q: %w", v, err)
		}
		return t.UTC(), nil
	}
	if len(r.Unixtime) > 0 {
		sec, err := strconv.ParseInt(string(r.Unixtime), 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse unixtime %s: %w", r.Unixtime, err)
		}
		return time.Unix(sec, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("time response has no datetime field")
}
