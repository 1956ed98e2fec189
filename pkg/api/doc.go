// Package api defines the wire-level types shared by the orchestration
// core and its HTTP surface: events, flows, run contexts, and the
// request/response shapes of the API server.
package api
