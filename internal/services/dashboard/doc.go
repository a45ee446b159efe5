// Package dashboard keeps the session in step with the server.
//
// Each call follows one path: read credentials from the keystore and the
// session, call the API, open the envelope, and commit the decoded payload
// into the session under a ticket for that resource. Any failure on the
// way, whether transport, server, protocol or crypto, aborts the call
// before the session is touched.
package dashboard
