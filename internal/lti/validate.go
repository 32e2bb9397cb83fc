package lti

import (
	"fmt"
	"strings"

	"github.com/ltilibrary/lti-go/internal/oauth"
)

// oauthRequired are the OAuth parameters every signed LTI message carries.
var oauthRequired = []string{
	oauth.ParamConsumerKey,
	oauth.ParamNonce,
	oauth.ParamSignature,
	oauth.ParamSignatureMethod,
	oauth.ParamTimestamp,
	oauth.ParamVersion,
}

// messageRules lists, per message type, the LTI parameters that must not be blank and the
// lti_version values the message may be sent with.
var messageRules = map[MessageType]struct {
	required []string
	versions []Version
}{
	MessageTypeBasicLaunch: {
		required: []string{ParamLtiMessageType, ParamLtiVersion, ParamResourceLinkID},
		versions: []Version{Version1, Version2},
	},
	MessageTypeContentItemSelectionRequest: {
		required: []string{ParamLtiMessageType, ParamLtiVersion, ParamAcceptMediaTypes, ParamAcceptPresentationDocumentTargets, ParamContentItemReturnURL},
		versions: []Version{Version1, Version2},
	},
	MessageTypeContentItemSelection: {
		required: []string{ParamLtiMessageType, ParamLtiVersion},
		versions: []Version{Version1, Version2},
	},
	MessageTypeToolProxyRegistration: {
		required: []string{ParamLtiMessageType, ParamLtiVersion, ParamRegKey, ParamRegPassword, ParamTcProfileURL, ParamLaunchPresentationReturnURL},
		versions: []Version{Version2},
	},
	MessageTypeToolProxyReregistration: {
		required: []string{ParamLtiMessageType, ParamLtiVersion, ParamTcProfileURL, ParamLaunchPresentationReturnURL},
		versions: []Version{Version2},
	},
}

// RequiredParameters returns the parameters Validate insists on for messageType, OAuth included.
func RequiredParameters(messageType MessageType) ([]string, error) {
	rules, ok := messageRules[messageType]
	if !ok {
		return nil, NewInvalidParameterError(fmt.Sprintf("unsupported lti_message_type %q", messageType))
	}
	return append(append([]string{}, rules.required...), oauthRequired...), nil
}

// Validate checks r as a message of the given type.
//
// Every blank required parameter is reported in one error with code ErrCodeMissingParameters.
// A message that declares a different lti_message_type, or an lti_version the message type
// does not support, fails with ErrCodeInvalidParameter.
func (r *Request) Validate(messageType MessageType) error {
	required, err := RequiredParameters(messageType)
	if err != nil {
		return err
	}

	var missing []string
	for _, name := range required {
		if strings.TrimSpace(r.get(name)) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return NewMissingParametersError(messageType, missing)
	}

	if declared := r.MessageType(); declared != messageType {
		return NewInvalidParameterError(fmt.Sprintf("lti_message_type is %q, expected %q", declared, messageType))
	}

	version := r.Version()
	for _, allowed := range messageRules[messageType].versions {
		if version == allowed {
			return nil
		}
	}
	return NewInvalidParameterError(fmt.Sprintf("lti_version %q is not valid for %s", version, messageType))
}
