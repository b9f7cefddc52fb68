package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/xavlacey/katakana-game/internal/domain"
)

var validate = validator.New()

// WordClient fetches word lists from another instance's /api/words endpoint.
type WordClient struct {
	baseURL string
	http    *http.Client
}

func NewWordClient(baseURL string, timeout time.Duration) *WordClient {
	return &WordClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// FetchWords calls GET {base}/api/words/{difficulty}/. Transport failures,
// non-2xx responses and records without a word or translation wrap
// domain.ErrRetrieval; an empty array is returned as an empty list.
func (c *WordClient) FetchWords(ctx context.Context, difficulty domain.Difficulty) ([]domain.WordRecord, error) {
	endpoint := c.baseURL + "/api/words/" + url.PathEscape(string(difficulty)) + "/"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrRetrieval, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRetrieval, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status %d", domain.ErrRetrieval, resp.StatusCode)
	}

	var words []domain.WordRecord
	if err := json.NewDecoder(resp.Body).Decode(&words); err != nil {
		return nil, fmt.Errorf("%w: decode words: %v", domain.ErrRetrieval, err)
	}
	for i, w := range words {
		if err := validate.Struct(w); err != nil {
			return nil, fmt.Errorf("%w: word %d: %v", domain.ErrRetrieval, i, err)
		}
	}
	return words, nil
}
