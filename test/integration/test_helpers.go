//go:build integration

// functions that are useful in integration tests

package integration

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ltilibrary/lti-go/internal/lti"
	"github.com/ltilibrary/lti-go/internal/ltiapi"
	"github.com/ltilibrary/lti-go/internal/oauth"
	"github.com/ltilibrary/lti-go/internal/outcomesv1"
	"github.com/ltilibrary/lti-go/internal/outcomesv2"
	"github.com/ltilibrary/lti-go/internal/transport"
)

// postSignedForm signs msg with the consumer's secret and posts it to msg.URL.
func postSignedForm(t *testing.T, msg *lti.Request, key, secret string) *http.Response {
	t.Helper()

	form, err := msg.SignedForm(oauth.Credentials{ConsumerKey: key, ConsumerSecret: secret}, oauth.HMACSHA1)
	if err != nil {
		t.Fatalf("failed to sign %s: %v", msg.MessageType(), err)
	}
	resp, err := http.Post(msg.URL, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatalf("POST %s: %v", msg.URL, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// decodeJSON decodes the body of a successful response into v.
func decodeJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, v); err != nil {
		t.Fatalf("failed to decode response %s: %v", body, err)
	}
}

// decodeErrorCode returns the first error code of an error response.
func decodeErrorCode(t *testing.T, resp *http.Response) ltiapi.ErrorCode {
	t.Helper()

	var errResp ltiapi.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if len(errResp.Errors) == 0 {
		t.Fatalf("error response has no errors: %+v", errResp)
	}
	return errResp.Errors[0].ErrorCode
}

// serviceClients returns Basic Outcomes and Outcomes Management clients signing as a consumer.
func serviceClients(key, secret string) (*outcomesv1.Client, *outcomesv2.Client) {
	tc := transport.NewClient(oauth.Credentials{ConsumerKey: key, ConsumerSecret: secret}, transport.WithDebug(true))
	return outcomesv1.NewClient(tc), outcomesv2.NewClient(tc)
}

// countRows returns the number of rows in table belonging to consumerKey.
func countRows(t *testing.T, pool *pgxpool.Pool, table, consumerKey string) int {
	t.Helper()

	var n int
	err := pool.QueryRow(context.Background(),
		"SELECT count(*) FROM "+table+" WHERE consumer_key = $1", consumerKey).Scan(&n)
	if err != nil {
		t.Fatalf("failed to count %s: %v", table, err)
	}
	return n
}
