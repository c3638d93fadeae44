// Package service implements the account and task operations on top of the
// store interfaces. Every operation is scoped by the authenticated
// principal's account id; ids supplied in request payloads are never used to
// reach another account's data.
package service
