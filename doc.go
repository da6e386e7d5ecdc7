// Copyright (c) 2025 Hana Cho.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Journey Map API server.

Journey Map tracks each user's personalized progress through shared,
admin-authored blueprints: trees of steps that users start, check off,
annotate, and reshape without ever touching the template itself.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=journeymap.db JWT_SECRET=... go run main.go

Or with flags:

	go run main.go -p 3000 -d journeymap.db -t sqlite --jwt-secret ...

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - JWT_SECRET (--jwt-secret): token signing secret

Optional settings:

  - PORT (-p): Server port (default: 3000)
  - DATABASE_TYPE (-t): "sqlite" (default) or "postgres"

# Architecture

The server uses a handler-based architecture with dependency injection:

  - progress: the reconciliation engine - template flattening, tree
    reassembly, upserts, guarded status transitions, cascading deletes
  - handlers: HTTP request handlers (users, blueprints, progress)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, auth guard, JSON helpers
  - models: Request/response and domain types
  - auth: Password hashing and JWT tokens
  - db: Schema creation and SQL stores
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
