// Package http implements the development API's REST transport.
//
// It exposes the same routes as the production backend for the four synced
// kinds (collections, collection items, feed items and search locations),
// plus a token endpoint. Tracing, access logging, response compression and
// bearer authentication are handled here before requests reach the service
// layer.
package http
