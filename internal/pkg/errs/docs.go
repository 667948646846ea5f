// Package errs provides the typed error taxonomy of the dispatch service.
//
// Each kind follows the same shape: a sentinel (ErrConflict, ErrObjectNotFound, ...),
// a struct carrying the details and an optional Cause, NewX and NewXWithCause
// constructors, Error() for the message and Unwrap() returning the sentinel so
// callers classify errors with errors.Is.
//
// Classes used across the service:
//   - validation: ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError
//   - ObjectNotFoundError: a referenced object is absent or not visible to the caller
//   - ConflictError: a conditional update did not find the expected prior state
//   - InvalidCredentialError: a delivery code or payment signature did not match
//   - NotPermittedError: the actor may not perform the operation
//   - UpstreamError: the payment gateway, push channel or broker failed
package errs
