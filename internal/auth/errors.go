package auth

import "errors"

// Multipass endpoint error keys. The key travels through the handler, the message
// reaches the browser.
var (
	ErrMissingSession   = errors.New("MISSING_SESSION")
	ErrMissingEmail     = errors.New("MISSING_EMAIL")
	ErrMissingReturnTo  = errors.New("MISSING_RETURN_TO_URL")
	ErrFailedGenerating = errors.New("FAILED_GENERATING_MULTIPASS")
	ErrInvalidSecret    = errors.New("Invalid Secret")
	ErrNotAuthorized    = errors.New("NOT_AUTHORIZED")
)

const unknownError = "UNKNOWN_ERROR"

var errorMessages = []struct {
	err     error
	message string
}{
	{ErrMissingSession, "No session found."},
	{ErrMissingEmail, "Required customer `email` was not provided."},
	{ErrMissingReturnTo, "Required customer `return_to` URL was not provided."},
	{ErrFailedGenerating, "Could not generate a multipass url."},
	{ErrInvalidSecret, "Invalid Secret"},
	{ErrNotAuthorized, "Not authorized."},
}

// ErrorMessage maps an endpoint error to its user facing message.
func ErrorMessage(err error) string {
	if err == nil {
		return unknownError
	}
	for _, e := range errorMessages {
		if errors.Is(err, e.err) {
			return e.message
		}
	}
	return unknownError
}

const genericExchangeMessage = "Could not log in with multipass."

// ExchangeError is a multipass token the Storefront API refused to trade for a
// customer access token.
type ExchangeError struct {
	Code    string
	Field   []string
	Message string
}

func (e *ExchangeError) Error() string {
	return e.Message
}
