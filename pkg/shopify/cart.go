package shopify

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

const cartFragment = `
fragment CartFields on Cart {
  id
  checkoutUrl
  cost {
    totalAmount {
      amount
      currencyCode
    }
  }
}
`

const cartBuyerIdentityUpdateMutation = `
mutation cartBuyerIdentityUpdate($cartId: ID!, $buyerIdentity: CartBuyerIdentityInput!) {
  cartBuyerIdentityUpdate(cartId: $cartId, buyerIdentity: $buyerIdentity) {
    cart {
      ...CartFields
    }
    userErrors {
      code
      field
      message
    }
  }
}
` + cartFragment

const cartCreateMutation = `
mutation cartCreate($input: CartInput) {
  cartCreate(input: $input) {
    cart {
      ...CartFields
    }
    userErrors {
      code
      field
      message
    }
  }
}
` + cartFragment

type BuyerIdentity struct {
	CustomerAccessToken string `json:"customerAccessToken,omitempty"`
	Email               string `json:"email,omitempty"`
	CountryCode         string `json:"countryCode,omitempty"`
}

type Money struct {
	// Shopify sends decimals as strings, e.g. "42.50".
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
}

type Cart struct {
	ID          string `json:"id"`
	CheckoutURL string `json:"checkoutUrl"`
	Cost        struct {
		TotalAmount Money `json:"totalAmount"`
	} `json:"cost"`
}

type cartPayload struct {
	Cart       *Cart `json:"cart"`
	UserErrors []struct {
		Code    string   `json:"code"`
		Field   []string `json:"field"`
		Message string   `json:"message"`
	} `json:"userErrors"`
}

func (p cartPayload) result(operation string) (*Cart, error) {
	if len(p.UserErrors) > 0 {
		return nil, fmt.Errorf("%s user error: %s", operation, p.UserErrors[0].Message)
	}
	if p.Cart == nil || p.Cart.ID == "" {
		return nil, fmt.Errorf("%s returned empty cart", operation)
	}
	return p.Cart, nil
}

// CartBuyerIdentityUpdate associates an existing cart with a buyer.
func (c Client) CartBuyerIdentityUpdate(ctx context.Context, cartID string, identity BuyerIdentity) (*Cart, error) {
	if cartID == "" {
		return nil, fmt.Errorf("missing cart id")
	}
	var data struct {
		Payload cartPayload `json:"cartBuyerIdentityUpdate"`
	}
	err := c.graphql(ctx, "cartBuyerIdentityUpdate", cartBuyerIdentityUpdateMutation, map[string]any{
		"cartId":        cartID,
		"buyerIdentity": identity,
	}, &data)
	if err != nil {
		return nil, err
	}
	return data.Payload.result("cartBuyerIdentityUpdate")
}

// CartCreate creates an empty cart already bound to the buyer.
func (c Client) CartCreate(ctx context.Context, identity BuyerIdentity) (*Cart, error) {
	var data struct {
		Payload cartPayload `json:"cartCreate"`
	}
	err := c.graphql(ctx, "cartCreate", cartCreateMutation, map[string]any{
		"input": map[string]any{"buyerIdentity": identity},
	}, &data)
	if err != nil {
		return nil, err
	}
	return data.Payload.result("cartCreate")
}
