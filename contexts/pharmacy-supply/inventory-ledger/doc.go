// Package inventoryledger implements the access-controlled drug batch ledger
// inside medledger.
//
// Layering:
// - domain: entities, role resolution, replay projection, errors
// - application: role-gated commands plus the read-only query surface
// - ports: stable boundaries for persistence, audit log, clock, id generation
// - adapters: concrete HTTP, memory, and postgres implementations
// - transport: module-private DTOs for HTTP contracts
//
// Boundary notes:
// - Keep this module self-contained under the pharmacy-supply context.
// - Do not import other context adapters into domain/application.
// - The audit log is authoritative; the drug table must always equal the
//   replay of the log from empty state.
package inventoryledger
