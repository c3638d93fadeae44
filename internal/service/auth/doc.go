// Package auth implements credential hashing, session token signing and the
// session check that turns a presented token into an authenticated
// principal.
package auth
