// Package main runs the in-memory development API used by paylink during
// development and tests. It serves seeded fixtures for one demo account and
// seals every SUCCESS payload to the requesting device key.
//
// HTTP API
//
//	POST /auth/login { "email", "password" }
//	    Issue a bearer token bound to the X-Device-Id of the caller.
//
//	POST /auth/logout
//	    Revoke the caller's token.
//
//	GET /user/me
//	GET /wallets
//	    Return the signed-in user, or their wallet balances.
//
//	GET /senders?status=ACTIVE&page=1&limit=10
//	    Return one page of senders; pagination rides on the envelope.
//
//	GET /senders/{id}
//	    Return one sender profile.
//
// Behaviour
//
//   - All state is held in memory and lost on process exit.
//   - Every device-bound route requires X-Public-Key and X-Device-Id and is
//     rate limited per device id.
//   - Failures are ERROR envelopes with a message and an error code.
//   - The default listen address is :8080. The demo credentials are printed
//     on start.
//
// Configuration comes from DEVAPI_ADDR, DEVAPI_JWT_SECRET,
// DEVAPI_RATE_PER_SEC, DEVAPI_BURST, DEVAPI_TOKEN_TTL and DEVAPI_LOG_LEVEL.
package main
