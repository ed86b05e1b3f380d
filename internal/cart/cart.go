package cart

import (
	"context"
	"fmt"

	slogctx "github.com/veqryn/slog-context"

	"storefront/internal/session"
	"storefront/pkg/shopify"
)

// SessionKey holds the Storefront cart id in the browser session.
const SessionKey = "cartId"

type Storefront interface {
	CartBuyerIdentityUpdate(ctx context.Context, cartID string, identity shopify.BuyerIdentity) (*shopify.Cart, error)
	CartCreate(ctx context.Context, identity shopify.BuyerIdentity) (*shopify.Cart, error)
}

// Handler binds the session's cart to a buyer.
type Handler struct {
	Storefront Storefront
}

// UpdateBuyerIdentity rebinds the session cart to the customer access token.
// Without a cart in the session a new one is created for the buyer and its id stored,
// which the caller persists on its next commit.
func (h Handler) UpdateBuyerIdentity(ctx context.Context, vals session.Values, customerAccessToken string) error {
	identity := shopify.BuyerIdentity{CustomerAccessToken: customerAccessToken}

	var cartID string
	if _, err := vals.Get(SessionKey, &cartID); err != nil {
		return fmt.Errorf("reading cart id: %w", err)
	}

	if cartID == "" {
		c, err := h.Storefront.CartCreate(ctx, identity)
		if err != nil {
			return err
		}
		if err := vals.Set(SessionKey, c.ID); err != nil {
			return err
		}
		slogctx.Info(ctx, "Created cart for buyer", "cart_id", c.ID)
		return nil
	}

	c, err := h.Storefront.CartBuyerIdentityUpdate(ctx, cartID, identity)
	if err != nil {
		return err
	}
	slogctx.Info(ctx, "Updated cart buyer identity",
		"cart_id", c.ID,
		"total", c.Cost.TotalAmount.Amount.StringFixed(2),
		"currency", c.Cost.TotalAmount.CurrencyCode,
	)
	return nil
}
