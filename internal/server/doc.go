// Package server exposes the api service over HTTP with JSON request and
// response bodies. Service errors map onto status codes through the shared
// taxonomy, so input rejection returns 400 and upstream throttling passes
// through as 429.
package server
