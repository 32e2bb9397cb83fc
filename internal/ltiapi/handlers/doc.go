// Package handlers implements the Tool Provider endpoints that receive signed LTI messages
// from a browser: the launch and the content-item selection return.
//
// Both verify the OAuth signature with the consumer registry, validate the message as the
// lti_message_type it declares and answer with a JSON summary.
package handlers
