// Package memory provides object reuse for the matching hot path: a
// typed pool for order records, a retirement ring for orders leaving
// the book, and epoch tracking so snapshot readers can walk the book
// while retired orders wait to be recycled.
package memory
