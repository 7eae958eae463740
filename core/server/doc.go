// Package server holds the HTTP server configuration.
//
// While the serve command handles the server startup, this package defines the
// configuration structure and its validation.
//
// # Configuration
//
// The Config struct defines the HTTP port and the optional API key.
//
// # Usage
//
// This package is primarily used by the core/config package to embed server settings
// and by the serve command to compute the listen address.
package server
