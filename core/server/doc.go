// Package server holds the HTTP server configuration.
//
// The actual Fiber application is assembled in the start command; this package
// only owns the settings that describe it (listen port, admin API key) so they
// can participate in the viper-based configuration loading.
package server
