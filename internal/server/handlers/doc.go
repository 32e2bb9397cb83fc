// Package handlers provides the infrastructure HTTP handlers (health, readiness, version).
package handlers
