// Package api is the HTTP adapter of the task service. It routes requests,
// validates payloads, runs session authentication on protected routes and
// maps service errors to status codes without leaking internals.
package api
