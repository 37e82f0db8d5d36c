// Package common contains constants, sentinel errors and small helpers shared
// by the client and server halves of profiledash.
package common

// AuthorizationHeaderName is the gRPC metadata key (and HTTP header) carrying
// the session token as "Bearer <token>".
const AuthorizationHeaderName = "authorization"

// BearerPrefix precedes the token in AuthorizationHeaderName values.
const BearerPrefix = "Bearer "
