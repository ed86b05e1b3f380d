package multipass

import "context"

// Event is the activation event of a Button.
type Event interface {
	PreventDefault()
}

// Button carries the customer session into checkout when activated.
// Multipass checkout is only available on Shopify Plus stores.
type Button struct {
	CheckoutURL string
	// OnClick runs before the exchange.
	OnClick func()
	// NoRedirect returns the multipass data instead of navigating.
	NoRedirect bool
	Client     Exchanger
}

// Click handles an activation. It does nothing when no checkout url is configured.
func (b Button) Click(ctx context.Context, ev Event) (Data, error) {
	if ev != nil {
		ev.PreventDefault()
	}
	if b.CheckoutURL == "" {
		return Data{}, nil
	}

	if b.OnClick != nil {
		b.OnClick()
	}

	// A logged in customer stays logged in at checkout; a logged out one is logged out there too.
	return b.Client.Exchange(ctx, Options{ReturnTo: b.CheckoutURL, Redirect: !b.NoRedirect})
}
