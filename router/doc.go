// Copyright (c) 2025 Hana Cho.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines the HTTP route table.

Uses Go 1.22+ ServeMux method/path patterns. Every route except /health,
/, and the two /auth entry points is wrapped in RequireAuth, so handlers
can assume an authenticated identity in the request context.
*/
package router
