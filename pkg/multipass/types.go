package multipass

import "context"

// Endpoint is the storefront route that hands out multipass urls.
const Endpoint = "/account/login/multipass"

// Options drive a single exchange.
type Options struct {
	ReturnTo string
	Redirect bool
}

// RequestBody is what the client posts to Endpoint.
type RequestBody struct {
	ReturnTo string `json:"return_to,omitempty"`
}

// Data is the data member of the exchange envelope. A nil URL means the exchange failed.
type Data struct {
	URL   *string `json:"url"`
	Token *string `json:"token,omitempty"`
}

// Envelope is the wire response of Endpoint: error is set if and only if data.url is null.
type Envelope struct {
	Data  *Data   `json:"data"`
	Error *string `json:"error"`
}

// Customer is the identity a multipass token is generated for.
type Customer struct {
	Email    string `json:"email"`
	ReturnTo string `json:"return_to"`
}

// Navigator moves the user agent to another url.
type Navigator interface {
	Navigate(ctx context.Context, url string)
}

type NavigatorFunc func(ctx context.Context, url string)

func (f NavigatorFunc) Navigate(ctx context.Context, url string) {
	f(ctx, url)
}

// Exchanger is satisfied by Client.
type Exchanger interface {
	Exchange(ctx context.Context, opts Options) (Data, error)
}

func String(s string) *string {
	return &s
}
