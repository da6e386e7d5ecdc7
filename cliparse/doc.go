// Copyright (c) 2025 Hana Cho.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles configuration from CLI flags and environment.

Settings resolve in order: CLI flag, environment variable, .env file
(loaded via godotenv), default.

Required:

  - DATABASE_URL (-d): SQLite path/DSN or PostgreSQL connection string
  - JWT_SECRET (--jwt-secret): token signing secret

Optional:

  - PORT (-p): server port (default: 3000)
  - DATABASE_TYPE (-t): "sqlite" (default) or "postgres"
*/
package cliparse
