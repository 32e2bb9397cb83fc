// Package lti models LTI 1.x messages: basic launches, Content-Item selection messages and
// tool proxy registration requests.
//
// A Request is a typed view over an ordered oauth.Parameters store. Outbound messages are
// built with the New* constructors, have their custom substitution variables expanded and are
// signed with Sign or SignedForm. Inbound messages are read with VerifyRequest, which
// authenticates the signature and then validates the parameters required by the declared
// lti_message_type.
package lti
