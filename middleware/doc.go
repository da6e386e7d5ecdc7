// Copyright (c) 2025 Hana Cho.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and JSON helpers.

# Middleware

  - WithLogging: request start/completion logging via slog
  - RequireAuth: validates the Authorization bearer token and stores the
    caller's identity in the request context (read it back with
    IdentityFrom)
  - CORS: cross-origin headers and preflight handling

# JSON Helpers

  - JSONResponse: writes a JSON body with status code
  - ErrorResponse: writes a models.ErrorResponse
  - ParseJSONBody: decodes a request body into a struct
*/
package middleware
