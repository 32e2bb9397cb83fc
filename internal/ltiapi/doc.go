// ltiapi holds what the HTTP endpoints share: the API error codes, the mapping from package
// errors to the JSON error response, and the response helpers.
//
// **error handling**
// oauth, lti, contentitem, transport and gradebook have their own error types. They are all
// mapped to ltiapi error codes and returned to the client in the standard error response format.
// Use RespondWithErrorResponse() to create and send the error response.
//
// The Basic Outcomes endpoint is the exception: POX clients expect failures inside an
// imsx_POXEnvelopeResponse, so it reports errors itself (see outcomesv1).
//
// **handlers**
// the launch and content-item return endpoints are in the handlers subpackage.
package ltiapi
