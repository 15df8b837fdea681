// Package database provides the GORM database connection.
//
// Two drivers are supported: MySQL for deployments and SQLite for small
// self-hosted installs and tests. The driver is selected through Config.Driver;
// query code that needs dialect-specific SQL (for example the phone-suffix
// expression used by identity recovery) inspects the dialector name at runtime.
//
// Connection pooling is configured with conservative defaults. GORM's own
// logging is silenced so that all output flows through the application logger.
package database
