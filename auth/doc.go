// Copyright (c) 2025 Hana Cho.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides password hashing and bearer tokens.

# Passwords

HashPassword / CheckPassword wrap bcrypt. A failed comparison surfaces as
ErrInvalidCredentials without distinguishing "no such user" from "wrong
password".

# Tokens

GenerateToken issues an HS256 JWT with the user id as subject and the role
as a custom claim, valid for TokenTTL. ValidateToken verifies signature and
expiry and returns the caller's Identity. The engine itself never inspects
identity; it receives the user id as an opaque string.
*/
package auth
