// Package errs provides the typed errors shared by the domain, application and
// adapter layers.
//
// Every error type pairs a struct carrying the details (parameter name, offending
// value, optional cause) with a sentinel returned from Unwrap, so callers match the
// category with errors.Is and read the details with errors.As:
//   - ValueIsRequiredError / ErrValueIsRequired
//   - ValueIsInvalidError / ErrValueIsInvalid
//   - ValueIsOutOfRangeError / ErrValueIsOutOfRange
//   - ObjectNotFoundError / ErrObjectNotFound
package errs
