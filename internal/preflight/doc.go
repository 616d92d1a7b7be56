// Package preflight provides readiness checks for the paths and binaries
// askcache depends on.
//
// These checks run in two contexts:
//   - The daemon calls RunAll at startup and logs every failed check before
//     it begins watching.
//   - The CLI "askcache check" command renders all results as a table and
//     exits non-zero when a required check fails.
//
// Binary checks only apply to helper delivery.
package preflight
