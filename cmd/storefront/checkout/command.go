package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"storefront/pkg/logger"
	"storefront/pkg/multipass"
)

type options struct {
	baseURL       string
	checkoutURL   string
	sessionCookie string
	noRedirect    bool
	logLevel      string
}

// cliEvent stands in for the click event of a browser button.
type cliEvent struct {
	prevented bool
}

func (e *cliEvent) PreventDefault() {
	e.prevented = true
}

func run(ctx context.Context, opts options, out io.Writer) error {
	logger.InitAsDefault(opts.logLevel, os.Stderr)

	jar, err := cookiejar.New(nil)
	if err != nil {
		return oops.In("checkout").Wrapf(err, "creating cookie jar")
	}
	if opts.sessionCookie != "" {
		base, err := url.Parse(opts.baseURL)
		if err != nil {
			return oops.In("checkout").Wrapf(err, "parsing base url")
		}
		c, err := http.ParseSetCookie(opts.sessionCookie)
		if err != nil {
			return oops.In("checkout").Wrapf(err, "parsing session cookie")
		}
		jar.SetCookies(base, []*http.Cookie{c})
	}

	button := multipass.Button{
		CheckoutURL: opts.checkoutURL,
		NoRedirect:  opts.noRedirect,
		OnClick: func() {
			_, _ = fmt.Fprintf(out, "requesting multipass url from %s\n", opts.baseURL)
		},
		Client: multipass.Client{
			HTTPClient: &http.Client{Jar: jar},
			BaseURL:    opts.baseURL,
			Navigator: multipass.NavigatorFunc(func(_ context.Context, u string) {
				_, _ = fmt.Fprintf(out, "navigate: %s\n", u)
			}),
		},
	}

	data, err := button.Click(ctx, &cliEvent{})
	if err != nil {
		// The button already fell back to the plain checkout url.
		_, _ = fmt.Fprintf(out, "multipass error: %s\n", err)
		return nil
	}
	if opts.noRedirect {
		return json.NewEncoder(out).Encode(data)
	}
	return nil
}

func Cmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Press the multipass checkout button against a running storefront",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "http://localhost:8081", "storefront origin")
	cmd.Flags().StringVar(&opts.checkoutURL, "checkout-url", "", "cart checkout url to carry the session into")
	cmd.Flags().StringVar(&opts.sessionCookie, "session-cookie", "", "Set-Cookie value of a logged in storefront session")
	cmd.Flags().BoolVar(&opts.noRedirect, "no-redirect", false, "print the multipass data instead of navigating")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "warn", "log level")
	return cmd
}
