// Package integration contains end-to-end tests for lti-server.
//
// These tests start the server in-process against a temporary PostgreSQL database (migrated by
// the gradebook on open) and drive it over HTTP with the same clients the lti command uses.
//
// These tests assume the oauth, lti and outcomes packages are working correctly (tested
// separately). If bugs are introduced in lower-level packages, there will be cascading
// failures here - fix the low-level problems first.
package integration
