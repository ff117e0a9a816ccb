// Package document holds the objects produced by a session: an
// append-only, in-memory store of named surfaces that stands in for a CAD
// host document.
package document
