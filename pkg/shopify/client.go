package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Client talks to the Storefront API GraphQL endpoint of a single shop.
type Client struct {
	HTTPClient  *http.Client
	StoreDomain string
	AccessToken string
	APIVersion  string

	// BaseURL replaces https://{StoreDomain} when set (local fakes, proxies).
	BaseURL string
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// graphql posts one operation and decodes its data object into out.
func (c Client) graphql(ctx context.Context, operation, query string, variables map[string]any, out any) error {
	var resp graphQLResponse
	if _, err := c.doJSON(ctx, http.MethodPost, "/graphql.json", graphQLRequest{Query: query, Variables: variables}, &resp); err != nil {
		return err
	}
	if len(resp.Errors) > 0 {
		return fmt.Errorf("%s graphql error: %s", operation, resp.Errors[0].Message)
	}
	if out != nil && len(resp.Data) > 0 {
		if err := json.Unmarshal(resp.Data, out); err != nil {
			return fmt.Errorf("decode %s data failed: %w", operation, err)
		}
	}
	return nil
}

func (c Client) doJSON(ctx context.Context, method, path string, reqBody any, respBody any) (int, error) {
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
	if c.APIVersion == "" {
		c.APIVersion = "2025-10"
	}
	if (c.StoreDomain == "" && c.BaseURL == "") || c.AccessToken == "" {
		return 0, fmt.Errorf("missing store domain or storefront access token")
	}

	var buf bytes.Buffer
	if reqBody != nil {
		if err := json.NewEncoder(&buf).Encode(reqBody); err != nil {
			return 0, err
		}
	}

	base := "https://" + c.StoreDomain
	if c.BaseURL != "" {
		base = strings.TrimRight(c.BaseURL, "/")
	}
	u := fmt.Sprintf("%s/api/%s%s", base, c.APIVersion, path)
	req, err := http.NewRequestWithContext(ctx, method, u, &buf)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Shopify-Storefront-Access-Token", c.AccessToken)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	b, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return resp.StatusCode, readErr
	}

	// Surface the error body for non-2xx so callers can see bad tokens, throttling, etc.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if len(b) > 0 {
			return resp.StatusCode, fmt.Errorf("storefront api error: status=%d body=%s", resp.StatusCode, string(b))
		}
		return resp.StatusCode, fmt.Errorf("storefront api error: status=%d", resp.StatusCode)
	}

	if respBody != nil && len(b) > 0 {
		if err := json.Unmarshal(b, respBody); err != nil {
			return resp.StatusCode, fmt.Errorf("decode storefront response failed: %w body=%s", err, string(b))
		}
	}

	return resp.StatusCode, nil
}
