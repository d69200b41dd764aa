package panelapp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// DefaultBaseURL is the public PanelApp REST endpoint.
const DefaultBaseURL = "https://panelapp.genomicsengland.co.uk/api/v1"

var (
	// ErrNotFound means PanelApp has no record for the requested panel or gene.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable means PanelApp did not produce a usable response after
	// retries.
	ErrUnavailable = errors.New("panelapp unavailable")
)

// Client queries the PanelApp REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries uint64
	logger     *zap.Logger
}

// NewClient creates a client for the given base URL.
// An empty baseURL selects the public service.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		maxRetries: 5,
		logger:     zap.NewNop(),
	}
}

// SetLogger sets the logger used for retry warnings.
func (c *Client) SetLogger(logger *zap.Logger) {
	c.logger = logger
}

// SetMaxRetries overrides the retry limit for rate-limited or failing requests.
func (c *Client) SetMaxRetries(n uint64) {
	c.maxRetries = n
}

// GetPanel fetches the latest version of a panel by R code.
func (c *Client) GetPanel(code string) (*Panel, error) {
	var pr panelResponse
	if err := c.getJSON(fmt.Sprintf("%s/panels/%s", c.baseURL, url.PathEscape(code)), &pr); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: panel %s", ErrNotFound, code)
		}
		return nil, fmt.Errorf("fetching panel %s: %w", code, err)
	}
	return pr.toPanel(code), nil
}

// GetPanelVersion fetches one historical version of a panel by its numeric
// identifier. Version lookups only work against the numeric id, not the R
// code, so callers resolve the panel once with GetPanel first.
func (c *Client) GetPanelVersion(pk int, version string) (*Panel, error) {
	reqURL := fmt.Sprintf("%s/panels/%d/?version=%s", c.baseURL, pk, url.QueryEscape(version))
	var pr panelResponse
	if err := c.getJSON(reqURL, &pr); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: panel %d version %s", ErrNotFound, pk, version)
		}
		return nil, fmt.Errorf("fetching panel %d version %s: %w", pk, version, err)
	}
	return pr.toPanel(""), nil
}

// GenePanels lists every panel that carries the gene symbol, following
// result pages until exhausted.
func (c *Client) GenePanels(symbol string) ([]GenePanelHit, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("hgnc_symbol: symbol must not be empty")
	}

	next := fmt.Sprintf("%s/genes/%s/", c.baseURL, url.PathEscape(symbol))
	var hits []GenePanelHit
	for next != "" {
		var page genesResponse
		if err := c.getJSON(next, &page); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, fmt.Errorf("%w: gene %s", ErrNotFound, symbol)
			}
			return nil, fmt.Errorf("fetching panels for gene %s: %w", symbol, err)
		}
		for _, res := range page.Results {
			hits = append(hits, GenePanelHit{
				PanelID:    res.Panel.ID,
				RCode:      ExtractRCodes(res.Panel.RelevantDisorders),
				PanelName:  res.Panel.Name,
				Confidence: tierFromLevel(res.ConfidenceLevel),
			})
		}
		next = page.Next
	}
	return hits, nil
}

// getJSON fetches one URL and decodes the body, retrying on rate limiting
// and server errors.
func (c *Client) getJSON(rawURL string, out any) error {
	fetch := func() error {
		resp, err := c.httpClient.Get(rawURL)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return backoff.Permanent(fmt.Errorf("decoding response: %w", err))
			}
			return nil
		case resp.StatusCode == http.StatusNotFound:
			return backoff.Permanent(ErrNotFound)
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			c.logger.Warn("retrying panelapp request",
				zap.String("url", rawURL),
				zap.Int("status", resp.StatusCode))
			return fmt.Errorf("%w: HTTP %d", ErrUnavailable, resp.StatusCode)
		default:
			return backoff.Permanent(fmt.Errorf("%w: HTTP %d", ErrUnavailable, resp.StatusCode))
		}
	}
	return backoff.Retry(fetch, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries))
}

// panelResponse mirrors the /panels/{id} payload.
type panelResponse struct {
	ID                int      `json:"id"`
	Name              string   `json:"name"`
	Version           string   `json:"version"`
	RelevantDisorders []string `json:"relevant_disorders"`
	Genes             []struct {
		GeneData struct {
			GeneSymbol string `json:"gene_symbol"`
		} `json:"gene_data"`
		ConfidenceLevel string `json:"confidence_level"`
	} `json:"genes"`
}

func (pr panelResponse) toPanel(code string) *Panel {
	p := &Panel{
		Code:      code,
		PK:        pr.ID,
		Name:      pr.Name,
		Version:   pr.Version,
		Disorders: pr.RelevantDisorders,
	}
	for _, g := range pr.Genes {
		p.Genes = append(p.Genes, Gene{
			Symbol:     g.GeneData.GeneSymbol,
			Confidence: tierFromLevel(g.ConfidenceLevel),
		})
	}
	return p
}

// genesResponse mirrors one page of the /genes/{symbol} payload.
type genesResponse struct {
	Next    string `json:"next"` // absolute URL of the next page, empty on the last
	Results []struct {
		ConfidenceLevel string `json:"confidence_level"`
		Panel           struct {
			ID                int      `json:"id"`
			Name              string   `json:"name"`
			RelevantDisorders []string `json:"relevant_disorders"`
		} `json:"panel"`
	} `json:"results"`
}
