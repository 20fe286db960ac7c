// Package server exposes station arrivals and the station directory over
// HTTP. Every arrivals request runs a fresh fetch, decode and aggregate pass.
package server
