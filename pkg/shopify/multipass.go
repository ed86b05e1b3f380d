package shopify

import (
	"context"
	"time"
)

const customerAccessTokenCreateWithMultipassMutation = `
mutation customerAccessTokenCreateWithMultipass($multipassToken: String!) {
  customerAccessTokenCreateWithMultipass(multipassToken: $multipassToken) {
    customerAccessToken {
      accessToken
      expiresAt
    }
    customerUserErrors {
      code
      field
      message
    }
  }
}
`

type CustomerAccessToken struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type CustomerUserError struct {
	Code    string   `json:"code"`
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

type CustomerAccessTokenCreateWithMultipassPayload struct {
	CustomerAccessToken *CustomerAccessToken `json:"customerAccessToken"`
	CustomerUserErrors  []CustomerUserError  `json:"customerUserErrors"`
}

// CustomerAccessTokenCreateWithMultipass exchanges a multipass token for a customer access token.
// Customer-level errors are returned in the payload, not as an error.
func (c Client) CustomerAccessTokenCreateWithMultipass(ctx context.Context, multipassToken string) (*CustomerAccessTokenCreateWithMultipassPayload, error) {
	var data struct {
		Payload *CustomerAccessTokenCreateWithMultipassPayload `json:"customerAccessTokenCreateWithMultipass"`
	}
	err := c.graphql(ctx, "customerAccessTokenCreateWithMultipass", customerAccessTokenCreateWithMultipassMutation, map[string]any{
		"multipassToken": multipassToken,
	}, &data)
	if err != nil {
		return nil, err
	}
	return data.Payload, nil
}
