// Package middleware groups the fiber middleware mounted by the serve command.
//
//   - rayid: tags every request with a uuid, stored in the "ray_id" local and
//     echoed in the X-Ray-ID response header, so inventory and integrity log
//     lines of one request can be correlated.
//   - auth: rejects requests whose X-API-Key header does not match the
//     configured key. An empty key disables the check.
//
// Both are registered globally, ray id first.
package middleware
