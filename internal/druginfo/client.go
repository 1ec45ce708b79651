// Package druginfo looks up drug label data from the openFDA API. Lookups
// are best effort: any network or decoding failure reports not-found so the
// rest of the application never blocks on the external service.
package druginfo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/singleflight"

	"medtrack/pkg/domain"
)

const defaultBaseURL = "https://api.fda.gov"

// Client queries the openFDA drug label endpoint. Concurrent lookups for
// the same name are collapsed into one upstream request.
type Client struct {
	baseURL    string
	httpClient *http.Client
	group      singleflight.Group
}

// NewClient builds a client. An empty baseURL selects the public openFDA
// endpoint.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

type labelResponse struct {
	Results []labelResult `json:"results"`
}

type labelResult struct {
	OpenFDA struct {
		GenericName []string `json:"generic_name"`
		BrandName   []string `json:"brand_name"`
		DrugClass   []string `json:"pharm_class_epc"`
	} `json:"openfda"`
	Purpose             []string `json:"purpose"`
	IndicationsAndUsage []string `json:"indications_and_usage"`
	Warnings            []string `json:"warnings"`
	AdverseReactions    []string `json:"adverse_reactions"`
	Description         []string `json:"description"`
}

// Search looks up label data for a drug name, matching either the brand or
// the generic name. The bool result reports whether anything was found.
func (c *Client) Search(ctx context.Context, name string) (domain.DrugInfo, bool) {
	type result struct {
		info  domain.DrugInfo
		found bool
	}
	v, _, _ := c.group.Do(name, func() (any, error) {
		info, found := c.fetch(ctx, name)
		return result{info: info, found: found}, nil
	})
	res := v.(result)
	return res.info, res.found
}

func (c *Client) fetch(ctx context.Context, name string) (domain.DrugInfo, bool) {
	params := url.Values{}
	params.Set("search", fmt.Sprintf("openfda.brand_name:%q OR openfda.generic_name:%q", name, name))
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/drug/label.json?"+params.Encode(), nil)
	if err != nil {
		return domain.DrugInfo{}, false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.DrugInfo{}, false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return domain.DrugInfo{}, false
	}

	var decoded labelResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.DrugInfo{}, false
	}
	if len(decoded.Results) == 0 {
		return domain.DrugInfo{}, false
	}

	label := decoded.Results[0]
	return domain.DrugInfo{
		GenericName:      first(label.OpenFDA.GenericName, name),
		BrandName:        first(label.OpenFDA.BrandName, name),
		Purpose:          first(label.Purpose, ""),
		Indications:      label.IndicationsAndUsage,
		Warnings:         label.Warnings,
		AdverseReactions: label.AdverseReactions,
		DrugClass:        first(label.OpenFDA.DrugClass, ""),
		Description:      first(label.Description, ""),
	}, true
}

func first(values []string, fallback string) string {
	if len(values) > 0 {
		return values[0]
	}
	return fallback
}
