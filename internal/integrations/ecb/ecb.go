// Package ecb fetches the European Central Bank's daily EUR reference rates,
// which back the dashboard's currency converter.
package ecb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/tmfaria/o-meu-bolso/internal/config"
)

// Client handles integration with the ECB reference-rate feed. Rates are
// cached in memory; Refresh is called by the daily job and lazily on first use.
type Client struct {
	url    string
	client *http.Client
	log    *logrus.Logger

	mu    sync.RWMutex
	rates map[string]decimal.Decimal
	date  string
}

// NewClient initializes a new ECB client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		url: cfg.ECBURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// fetch downloads the raw daily feed
func (c *Client) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %v", err)
	}
	return body, nil
}

// parseDailyFeed extracts the reference date and the EUR-based rate table
// from the eurofxref-daily XML document.
func parseDailyFeed(raw []byte) (string, map[string]decimal.Decimal, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return "", nil, fmt.Errorf("failed to parse XML: %v", err)
	}

	dated := doc.FindElement("//Cube/Cube")
	if dated == nil {
		return "", nil, fmt.Errorf("no rate data found in XML")
	}
	date := dated.SelectAttrValue("time", "")

	rates := make(map[string]decimal.Decimal)
	for _, el := range dated.FindElements("./Cube") {
		currency := el.SelectAttrValue("currency", "")
		rateStr := el.SelectAttrValue("rate", "")
		if currency == "" || rateStr == "" {
			continue
		}
		rate, err := decimal.NewFromString(rateStr)
		if err != nil {
			return "", nil, fmt.Errorf("failed to parse rate for %s: %v", currency, err)
		}
		rates[currency] = rate
	}
	if len(rates) == 0 {
		return "", nil, fmt.Errorf("no rate data found in XML")
	}
	return date, rates, nil
}

// Refresh fetches the current feed and replaces the cached rates
func (c *Client) Refresh(ctx context.Context) error {
	body, err := c.fetch(ctx)
	if err != nil {
		return err
	}
	date, rates, err := parseDailyFeed(body)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.rates = rates
	c.date = date
	c.mu.Unlock()

	c.log.Infof("Loaded %d EUR reference rates dated %s", len(rates), date)
	return nil
}

// Rates returns the cached rate table, fetching it first if empty.
func (c *Client) Rates(ctx context.Context) (string, map[string]decimal.Decimal, error) {
	c.mu.RLock()
	if c.rates != nil {
		date, rates := c.date, c.rates
		c.mu.RUnlock()
		return date, rates, nil
	}
	c.mu.RUnlock()

	if err := c.Refresh(ctx); err != nil {
		return "", nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.date, c.rates, nil
}

// Convert converts an EUR amount into the target currency
func (c *Client) Convert(ctx context.Context, to string, amount decimal.Decimal) (decimal.Decimal, error) {
	_, rates, err := c.Rates(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	rate, ok := rates[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("unknown currency %q", to)
	}
	return amount.Mul(rate).Round(2), nil
}
