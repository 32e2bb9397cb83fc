package lti

import (
	"net/http"

	"github.com/ltilibrary/lti-go/internal/oauth"
)

// CallbackAboutBlank is the oauth_callback value LTI launches send.
const CallbackAboutBlank = "about:blank"

// NewBasicLaunchRequest starts a basic-lti-launch-request for the given resource link.
func NewBasicLaunchRequest(launchURL, resourceLinkID string) *Request {
	r := NewRequest(http.MethodPost, launchURL)
	r.SetMessageType(MessageTypeBasicLaunch)
	r.SetVersion(Version1)
	r.SetResourceLinkID(resourceLinkID)
	return r
}

// NewContentItemSelectionRequest starts a ContentItemSelectionRequest asking the tool to return
// items of the accepted media types to returnURL.
func NewContentItemSelectionRequest(launchURL, returnURL, acceptMediaTypes string, targets ...DocumentTarget) *Request {
	r := NewRequest(http.MethodPost, launchURL)
	r.SetMessageType(MessageTypeContentItemSelectionRequest)
	r.SetVersion(Version1)
	r.SetContentItemReturnURL(returnURL)
	r.SetAcceptMediaTypes(acceptMediaTypes)
	r.SetAcceptPresentationDocumentTargets(targets...)
	return r
}

// NewContentItemSelectionResponse starts the ContentItemSelection message a tool posts back to
// content_item_return_url. contentItems is the encoded graph, data is echoed from the request.
func NewContentItemSelectionResponse(returnURL, contentItems, data string) *Request {
	r := NewRequest(http.MethodPost, returnURL)
	r.SetMessageType(MessageTypeContentItemSelection)
	r.SetVersion(Version1)
	r.SetContentItems(contentItems)
	r.SetData(data)
	return r
}

// Sign expands the custom substitution variables and signs r in place. The signature covers
// every parameter, so nothing may be changed afterwards.
func (r *Request) Sign(signer *oauth.Signer, creds oauth.Credentials, signatureMethod oauth.SignatureMethod) error {
	r.SubstituteCustomVariables()
	if !r.params.Has(oauth.ParamCallback) {
		r.params.Set(oauth.ParamCallback, CallbackAboutBlank)
	}
	return signer.SignParameters(r.Method, r.URL, r.params, creds, signatureMethod)
}

// SignedForm signs a copy of r and checks it against the rules of its message type. The
// returned parameters are ready to be posted as an auto-submitting HTML form.
func (r *Request) SignedForm(creds oauth.Credentials, signatureMethod oauth.SignatureMethod) (*oauth.Parameters, error) {
	signed := NewRequestFromParameters(r.Method, r.URL, r.params.Clone())
	if err := signed.Sign(oauth.NewSigner(), creds, signatureMethod); err != nil {
		return nil, err
	}
	if err := signed.Validate(signed.MessageType()); err != nil {
		return nil, err
	}
	return signed.params, nil
}

// ParseRequest reads the parameters of an inbound launch without checking the signature.
func ParseRequest(req *http.Request, publicBaseURL string) (*Request, error) {
	params, _, err := oauth.ReadRequest(req)
	if err != nil {
		return nil, err
	}
	launchURL, err := oauth.RequestURL(req, publicBaseURL)
	if err != nil {
		return nil, err
	}
	return NewRequestFromParameters(req.Method, launchURL, params), nil
}

// VerifyRequest authenticates an inbound message with verifier and validates it as the message
// type it declares.
func VerifyRequest(verifier *oauth.Verifier, req *http.Request) (*Request, error) {
	verified, err := verifier.VerifyRequest(req)
	if err != nil {
		return nil, err
	}
	launchURL, err := oauth.RequestURL(req, verifier.PublicBaseURL)
	if err != nil {
		return nil, err
	}
	r := NewRequestFromParameters(req.Method, launchURL, verified.Parameters)
	if err := r.Validate(r.MessageType()); err != nil {
		return nil, err
	}
	return r, nil
}
