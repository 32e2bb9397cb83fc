package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/ltilibrary/lti-go/internal/oauth"
	"github.com/ltilibrary/lti-go/internal/transport"
)

func credentials() (oauth.Credentials, error) {
	if cfg.ConsumerKey == "" || cfg.ConsumerSecret == "" {
		return oauth.Credentials{}, errors.New("a consumer key and secret are required (--consumer-key and --consumer-secret, or LTI_CONSUMER_KEY and LTI_CONSUMER_SECRET)")
	}
	return oauth.Credentials{ConsumerKey: cfg.ConsumerKey, ConsumerSecret: cfg.ConsumerSecret}, nil
}

func signatureMethod() (oauth.SignatureMethod, error) {
	return oauth.ParseSignatureMethod(cfg.SignatureMethod)
}

// newTransport returns a signing client configured from the environment and flags.
func newTransport() (*transport.Client, error) {
	creds, err := credentials()
	if err != nil {
		return nil, err
	}
	method, err := signatureMethod()
	if err != nil {
		return nil, err
	}
	return transport.NewClient(creds,
		transport.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		transport.WithSignatureMethod(method),
		transport.WithDebug(cfg.DebugExchanges),
	), nil
}

// serviceError prints the captured exchange of a failed service call before returning err.
func serviceError(cmd *cobra.Command, err error) error {
	var transportErr *transport.Error
	if errors.As(err, &transportErr) {
		ex := transportErr.Exchange
		w := cmd.ErrOrStderr()
		if ex.StatusCode != 0 {
			fmt.Fprintf(w, "%s %s -> HTTP %d\n", ex.Method, ex.URL, ex.StatusCode)
		}
		if ex.RequestText != "" {
			fmt.Fprintf(w, "--- request\n%s\n", ex.RequestText)
		}
		if ex.ResponseText != "" {
			fmt.Fprintf(w, "--- response\n%s\n", ex.ResponseText)
		}
	}
	return err
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
