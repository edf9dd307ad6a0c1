package youtube

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"

	"github.com/keshon/jukebox/pkg/retrylimit"
)

var (
	watchURLPattern = regexp.MustCompile(`"url":"/watch\?v=([a-zA-Z0-9_-]{11})`)

	ErrNoVideoMatch = errors.New("no video found for the given query")
)

// scraper reads video ids straight out of the results page. It is the last
// resort when both search APIs come back empty.
type scraper struct {
	BaseURL string
	Client  *http.Client
}

func newScraper(client *http.Client) *scraper {
	return &scraper{
		BaseURL: "https://www.youtube.com",
		Client:  client,
	}
}

func (r *scraper) SearchVideoIDs(ctx context.Context, query string, limit int) ([]string, error) {
	searchURL := fmt.Sprintf("%s/results?search_query=%s", r.BaseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &retrylimit.StatusError{Code: resp.StatusCode, URL: searchURL}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var ids []string
	seen := make(map[string]struct{})
	for _, m := range watchURLPattern.FindAllStringSubmatch(string(body), -1) {
		if _, dup := seen[m[1]]; dup {
			continue
		}
		seen[m[1]] = struct{}{}
		ids = append(ids, m[1])
		if len(ids) == limit {
			break
		}
	}

	if len(ids) == 0 {
		return nil, ErrNoVideoMatch
	}
	return ids, nil
}
