package multipass

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	slogctx "github.com/veqryn/slog-context"
)

var ErrMissingURL = errors.New("Missing multipass url")

// Client requests multipass urls from the storefront and follows them.
//
// It fails open: any error is reported to the caller, and when Redirect is set the
// user is still sent to ReturnTo so checkout is never blocked by multipass.
type Client struct {
	HTTPClient *http.Client
	// BaseURL is the storefront origin, e.g. https://shop.example.com.
	BaseURL   string
	Navigator Navigator
}

// Exchange requests a multipass url for opts.ReturnTo. On success with opts.Redirect it
// navigates to that url; on failure it navigates to opts.ReturnTo instead.
func (c Client) Exchange(ctx context.Context, opts Options) (Data, error) {
	data, err := c.request(ctx, opts.ReturnTo)
	if err != nil {
		slogctx.Warn(ctx, "Bypassing multipass checkout", "error", err.Error())
		if opts.Redirect && opts.ReturnTo != "" {
			c.navigate(ctx, opts.ReturnTo)
		}
		return Data{}, err
	}

	if !opts.Redirect {
		return data, nil
	}

	c.navigate(ctx, *data.URL)
	return data, nil
}

func (c Client) request(ctx context.Context, returnTo string) (Data, error) {
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	body, err := json.Marshal(RequestBody{ReturnTo: returnTo})
	if err != nil {
		return Data{}, err
	}

	u := strings.TrimRight(c.BaseURL, "/") + Endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return Data{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return Data{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Data{}, fmt.Errorf("%d /multipass response not ok. %s", resp.StatusCode, statusText(resp))
	}

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return Data{}, fmt.Errorf("decoding multipass response: %w", err)
	}
	if env.Error != nil && *env.Error != "" {
		return Data{}, errors.New(*env.Error)
	}
	if env.Data == nil || env.Data.URL == nil || *env.Data.URL == "" {
		return Data{}, ErrMissingURL
	}

	return *env.Data, nil
}

func (c Client) navigate(ctx context.Context, url string) {
	if c.Navigator == nil {
		return
	}
	c.Navigator.Navigate(ctx, url)
}

// statusText is the reason phrase the server sent, e.g. "Bad Request".
func statusText(resp *http.Response) string {
	return strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" ")
}
