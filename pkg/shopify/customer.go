package shopify

import "context"

const customerQuery = `
query customer($customerAccessToken: String!) {
  customer(customerAccessToken: $customerAccessToken) {
    id
    email
    firstName
    lastName
  }
}
`

type Customer struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Customer returns nil without an error when the access token no longer resolves to a customer.
func (c Client) Customer(ctx context.Context, customerAccessToken string) (*Customer, error) {
	var data struct {
		Customer *Customer `json:"customer"`
	}
	err := c.graphql(ctx, "customer", customerQuery, map[string]any{
		"customerAccessToken": customerAccessToken,
	}, &data)
	if err != nil {
		return nil, err
	}
	return data.Customer, nil
}
