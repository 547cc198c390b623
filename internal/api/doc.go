// Package api defines the JSON wire types shared by the HTTP server and the
// CLI client, plus the client itself. Field names are snake_case to match
// what the queue and TV pages consume.
package api
