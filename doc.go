// Package postboard implements a small posts backend protected by stateless
// bearer-token authentication.
//
// The authentication core is split along collaborator seams:
//   - TokenService issues and validates signed, time-bounded identity tokens
//     (HMAC family, HS256 by default, single static signing secret).
//   - Auther orchestrates signup and login against an IdentityProvider and a
//     PasswordAuthenticator; tokens are issued only at login.
//   - middleware/jwtware carries the per-request filter that extracts and
//     validates the bearer token, plus the access policy gate that rejects
//     anonymous requests on protected routes.
//
// The filter is always fail-open: it never terminates a request, it only
// establishes (or withholds) the request's identity. Rejection is the gate's
// job, which keeps public routes reachable even when a caller presents a
// garbage token.
package postboard
