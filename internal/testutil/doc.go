// Package testutil contains helper builders used across tests to reduce
// boilerplate when constructing interview events and replaying streams into
// projections. These helpers are intentionally minimal, avoid third-party
// dependencies and are not intended for production usage.
package testutil
