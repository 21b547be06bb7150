// Package persistence composes report writers. Store-level middleware
// (encryption at rest) and sink redaction live in the middleware subpackage.
package persistence
