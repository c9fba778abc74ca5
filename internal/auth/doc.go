// Package auth provides authentication for RackDock.
//
// It implements a single-tier operator account model with:
//   - Argon2id password hashing (OWASP 2025 recommendation)
//   - Stateless JWT session tokens (HS256, signature-validated per request)
//   - First-boot admin seeding with a random generated password
//
// There are no roles: any authenticated account may manage the full
// inventory. Accounts are created by seeding or direct administration;
// self-service registration is deliberately absent.
package auth
