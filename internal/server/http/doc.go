// Package httpserver exposes a ring log over HTTP: status and record
// listing, appends driven by the server's own polling loop, health and
// Prometheus metrics. The server is the log's single caller; every
// handler takes the server mutex around log access.
package httpserver
