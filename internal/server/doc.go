// Package server provides the HTTP server of lti-server.
//
// The server is configured through environment variables (see internal/config).
//
// Routes:
//   - POST /lti/launch and POST /lti/content-items receive signed messages posted by browsers
//   - POST /outcomes/v1 is the Basic Outcomes (POX) service
//   - /outcomes/v2/{contextID}/lineitems/... is the Outcomes Management service
//   - GET /health/live, GET /health/ready and GET /version
//
// Middleware is in internal/server/middleware.
package server
