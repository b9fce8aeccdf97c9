// Package server runs the development API's HTTP server: startup, signal
// handling and graceful shutdown.
package server
