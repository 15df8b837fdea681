// Package config provides configuration management for the Guest Manager.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, admin API key)
//   - Database: MySQL or SQLite connection details
//   - Storage: S3/MinIO credentials for the import audit archive
//   - Log: Logging level and format
//   - Event: event-level settings (default language, RSVP deadline)
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
