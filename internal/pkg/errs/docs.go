// Package errs provides the error taxonomy shared by the dispatch service.
//
// Business errors (not found, invalid or missing values) and infrastructure
// errors (persistence, transport) are kept distinguishable so that the
// assignment consumer can acknowledge the former and let the transport
// redeliver on the latter.
//
// Each typed error unwraps to a sentinel (ErrObjectNotFound, ErrValueIsInvalid,
// ErrPersistence, ...), so classification is always done with errors.Is.
package errs
