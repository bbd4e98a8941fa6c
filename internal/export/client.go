// Package export fetches bounded batches of page revisions from a wiki
// export endpoint.
package export

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/cenkalti/backoff/v4"

	"github.com/jonesrussell/wikirev/internal/logger"
	"github.com/jonesrussell/wikirev/internal/revision"
)

// maxResponseBodyBytes limits the size of export responses. A full-text
// batch of 1000 revisions of a large article can run to hundreds of MB.
const maxResponseBodyBytes = 512 * 1024 * 1024

// PageNotFoundError indicates the export response carried no page element
// for the requested title. Fatal at this layer; never retried.
type PageNotFoundError struct {
	Title string
}

func (e *PageNotFoundError) Error() string {
	return fmt.Sprintf("page %q does not exist", e.Title)
}

// Client fetches combined revision payloads from the export endpoint.
type Client struct {
	httpClient *http.Client
	endpoint   string
	userAgent  string
	maxRetries uint64
	log        logger.Interface
}

// NewClient creates a new export client.
func NewClient(cfg Config, log logger.Interface) *Client {
	cfg = cfg.WithDefaults()

	return &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		endpoint:   cfg.Endpoint,
		userAgent:  cfg.UserAgent,
		maxRetries: cfg.MaxRetries,
		log:        log,
	}
}

// FetchRevisions requests up to limit revisions of the titled page in
// descending time order and returns the combined payload. The limit is
// capped at the source ceiling. Transient transport failures are retried
// with exponential backoff; a missing page element is returned as a
// PageNotFoundError and is not retried.
func (c *Client) FetchRevisions(ctx context.Context, title string, limit int) (string, error) {
	if title == "" {
		return "", fmt.Errorf("page title must not be empty")
	}
	if limit < 1 {
		return "", fmt.Errorf("revision limit must be positive, got %d", limit)
	}
	if limit > MaxRevisionLimit {
		c.log.Debug("capping revision limit", "requested", limit, "cap", MaxRevisionLimit)
		limit = MaxRevisionLimit
	}

	form := url.Values{
		"title":  {"Special:Export"},
		"pages":  {title},
		"limit":  {strconv.Itoa(limit)},
		"dir":    {"desc"},
		"action": {"submit"},
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries),
		ctx,
	)

	payload, err := backoff.RetryWithData(func() (string, error) {
		return c.post(ctx, form)
	}, policy)
	if err != nil {
		return "", fmt.Errorf("fetch revisions for %q: %w", title, err)
	}

	if !revision.HasPage(payload) {
		return "", &PageNotFoundError{Title: title}
	}

	return payload, nil
}

// post performs one export request. Network errors, 429s, and 5xx statuses
// are returned as retryable; everything else is permanent.
func (c *Client) post(ctx context.Context, form url.Values) (string, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()),
	)
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("build export request: %w", err))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("export request failed, will retry", "error", err)
		return "", err
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyBytes))

	switch {
	case resp.StatusCode == http.StatusOK:
		if readErr != nil {
			return "", fmt.Errorf("read export response: %w", readErr)
		}
		return string(body), nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		c.log.Warn("export endpoint returned retryable status", "status", resp.StatusCode)
		return "", fmt.Errorf("export endpoint returned status %d", resp.StatusCode)
	default:
		return "", backoff.Permanent(fmt.Errorf("export endpoint returned status %d", resp.StatusCode))
	}
}
