// Package http is the inbound HTTP adapter of the dispatch service: the REST
// API with its OpenAPI request validation, the order status event stream and
// the websocket chat hub.
package http
