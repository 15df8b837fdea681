// Package storage provides the object storage client used for import archives.
//
// The Client interface wraps the Minio SDK so that features depend on a small
// surface that can be mocked in tests (see the mocks subpackage). Every
// committed import run uploads its source CSV and report JSON here for audit.
//
// Storage is optional: when no endpoint is configured the application runs
// without it and archiving is skipped.
package storage
