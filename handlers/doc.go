// Copyright (c) 2025 Hana Cho.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers implements the HTTP request handlers.

# Handlers

  - UserHandler: register, login, me
  - BlueprintHandler: admin CRUD, listing with started flags, fetching a
    blueprint with the caller's steps, starting a blueprint
  - ProgressHandler: tree retrieval with completion counters, raw patch
    upsert, explicit step creation, guarded status transition, cascading
    subtree delete

All handlers read the caller's identity from the request context, where
middleware.RequireAuth put it; the progress engine only ever sees an
opaque user id.

# Status codes

  - 400 malformed body or missing identifiers
  - 401 missing/invalid bearer token
  - 403 non-admin calling an admin operation
  - 404 blueprint or step not found
  - 409 guard rejection (completing a step with unfinished children) or
    duplicate registration
*/
package handlers
