package cli

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ltilibrary/lti-go/internal/lti"
	"github.com/ltilibrary/lti-go/internal/oauth"
)

var launchCmd = &cobra.Command{
	Use:   "launch",
	Short: "Sign and verify launch messages",
}

var launchSignCmd = &cobra.Command{
	Use:   "sign <launch-url>",
	Short: "Sign a launch as a Tool Consumer would",
	Long: `Build a basic-lti-launch-request (or, with --content-item-return-url, a
ContentItemSelectionRequest), expand its custom substitution variables and sign it.

The signed parameters are printed as a form body, as JSON or as an auto-submitting HTML page
that can be opened in a browser.

Example:
  lti launch sign https://tool.example/lti/launch --resource-link-id 42 \
    --user-id u-7 --roles Learner --custom chapter=3 --format html > launch.html`,
	Args: cobra.ExactArgs(1),
	RunE: runLaunchSign,
}

var launchVerifyCmd = &cobra.Command{
	Use:   "verify <launch-url>",
	Short: "Verify a signed launch form",
	Long: `Read an application/x-www-form-urlencoded launch body from --body (or stdin), verify its
signature against the configured consumer secret and validate it as the message type it
declares.`,
	Args: cobra.ExactArgs(1),
	RunE: runLaunchVerify,
}

var launchFlags struct {
	resourceLinkID    string
	userID            string
	roles             string
	contextID         string
	contextTitle      string
	outcomeServiceURL string
	resultSourcedID   string
	returnURL         string
	contentItemReturn string
	acceptMediaTypes  string
	custom            map[string]string
	format            string
	body              string
}

func init() {
	launchCmd.AddCommand(launchSignCmd)
	launchCmd.AddCommand(launchVerifyCmd)

	f := launchSignCmd.Flags()
	f.StringVar(&launchFlags.resourceLinkID, "resource-link-id", "", "resource_link_id")
	f.StringVar(&launchFlags.userID, "user-id", "", "user_id")
	f.StringVar(&launchFlags.roles, "roles", "", "comma separated roles (short names or URNs)")
	f.StringVar(&launchFlags.contextID, "context-id", "", "context_id")
	f.StringVar(&launchFlags.contextTitle, "context-title", "", "context_title")
	f.StringVar(&launchFlags.outcomeServiceURL, "outcome-service-url", "", "lis_outcome_service_url")
	f.StringVar(&launchFlags.resultSourcedID, "result-sourcedid", "", "lis_result_sourcedid")
	f.StringVar(&launchFlags.returnURL, "return-url", "", "launch_presentation_return_url")
	f.StringVar(&launchFlags.contentItemReturn, "content-item-return-url", "", "send a ContentItemSelectionRequest returning to this url")
	f.StringVar(&launchFlags.acceptMediaTypes, "accept-media-types", "application/vnd.ims.lti.v1.ltilink", "accept_media_types of a ContentItemSelectionRequest")
	f.StringToStringVar(&launchFlags.custom, "custom", nil, "custom parameter name=value (repeatable)")
	f.StringVar(&launchFlags.format, "format", "form", "output format: form, json or html")

	launchVerifyCmd.Flags().StringVar(&launchFlags.body, "body", "-", "file holding the form body, - for stdin")
}

func buildLaunch(launchURL string) (*lti.Request, error) {
	var launch *lti.Request
	if launchFlags.contentItemReturn != "" {
		launch = lti.NewContentItemSelectionRequest(launchURL, launchFlags.contentItemReturn, launchFlags.acceptMediaTypes,
			lti.DocumentTargetIframe, lti.DocumentTargetWindow)
		launch.SetResourceLinkID(launchFlags.resourceLinkID)
	} else {
		if launchFlags.resourceLinkID == "" {
			return nil, fmt.Errorf("--resource-link-id is required")
		}
		launch = lti.NewBasicLaunchRequest(launchURL, launchFlags.resourceLinkID)
	}

	launch.SetUserID(launchFlags.userID)
	launch.SetRoles(lti.ParseRoles(launchFlags.roles)...)
	launch.SetContextID(launchFlags.contextID)
	launch.SetContextTitle(launchFlags.contextTitle)
	launch.SetLisOutcomeServiceURL(launchFlags.outcomeServiceURL)
	launch.SetLisResultSourcedID(launchFlags.resultSourcedID)
	launch.SetLaunchPresentationReturnURL(launchFlags.returnURL)

	// sorted so the signed form is reproducible
	names := make([]string, 0, len(launchFlags.custom))
	for name := range launchFlags.custom {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		launch.AddCustomParameter(name, launchFlags.custom[name])
	}
	return launch, nil
}

func runLaunchSign(cmd *cobra.Command, args []string) error {
	creds, err := credentials()
	if err != nil {
		return err
	}
	method, err := signatureMethod()
	if err != nil {
		return err
	}

	launch, err := buildLaunch(args[0])
	if err != nil {
		return err
	}
	form, err := launch.SignedForm(creds, method)
	if err != nil {
		return err
	}

	appLogger.Debug("launch signed",
		slog.String("url", launch.URL),
		slog.String("message_type", string(launch.MessageType())),
		slog.String("consumer_key", creds.ConsumerKey),
	)

	out := cmd.OutOrStdout()
	switch launchFlags.format {
	case "form":
		_, err = fmt.Fprintln(out, form.Encode())
	case "json":
		err = printJSON(out, form.All())
	case "html":
		err = writeAutoSubmitForm(out, launch.URL, form)
	default:
		err = fmt.Errorf("unknown format %q (form, json or html)", launchFlags.format)
	}
	return err
}

var autoSubmitTemplate = template.Must(template.New("launch").Parse(`<!DOCTYPE html>
<html>
<head><title>LTI launch</title></head>
<body onload="document.forms[0].submit()">
<form method="post" action="{{.Action}}" encType="application/x-www-form-urlencoded">
{{- range .Fields}}
<input type="hidden" name="{{.Name}}" value="{{.Value}}">
{{- end}}
<noscript><button type="submit">Launch</button></noscript>
</form>
</body>
</html>
`))

func writeAutoSubmitForm(w io.Writer, action string, form *oauth.Parameters) error {
	return autoSubmitTemplate.Execute(w, struct {
		Action string
		Fields []oauth.Parameter
	}{Action: action, Fields: form.All()})
}

// singleSecret authenticates exactly one consumer key.
type singleSecret oauth.Credentials

func (s singleSecret) LookupSecret(_ context.Context, key string) (string, error) {
	if key != s.ConsumerKey {
		return "", fmt.Errorf("consumer key %q is not the configured key", key)
	}
	return s.ConsumerSecret, nil
}

func runLaunchVerify(cmd *cobra.Command, args []string) error {
	creds, err := credentials()
	if err != nil {
		return err
	}

	var body []byte
	if launchFlags.body == "-" {
		body, err = io.ReadAll(cmd.InOrStdin())
	} else {
		body, err = os.ReadFile(launchFlags.body)
	}
	if err != nil {
		return fmt.Errorf("failed to read launch body: %w", err)
	}

	req, err := http.NewRequestWithContext(cmd.Context(), http.MethodPost, args[0], bytes.NewReader(bytes.TrimSpace(body)))
	if err != nil {
		return fmt.Errorf("invalid launch url: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	// the request never crossed a listener, so the signed scheme and host come from the url
	verifier := &oauth.Verifier{
		Secrets:       singleSecret(creds),
		PublicBaseURL: req.URL.Scheme + "://" + req.URL.Host,
	}
	launch, err := lti.VerifyRequest(verifier, req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "signature valid: %s from %s\n", launch.MessageType(), launch.ConsumerKey())
	for _, p := range launch.Parameters().All() {
		if strings.HasPrefix(p.Name, "oauth_") {
			continue
		}
		fmt.Fprintf(out, "  %s = %s\n", p.Name, p.Value)
	}
	return nil
}
