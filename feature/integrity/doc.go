// Package integrity provides health checks for the mirror and the
// infrastructure it depends on.
//
// # Checks Provided
//
//   - Schema: the inventory tables have every column the models map to.
//   - Storage: the bucket for seeds and snapshots exists.
//   - Mirror: the mirrored sections match what the database holds now.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/schema : Runs the schema check.
//   - GET /integrity/storage : Runs the storage check.
//   - GET /integrity/mirror : Runs the mirror check (supports ?fix=true).
package integrity
