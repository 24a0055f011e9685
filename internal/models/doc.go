// Package models defines the core domain models for the RSVP system.
//
// # Current Models (v2, party-centric)
//
//   - Party: an invitation unit with one shared RSVP status and headcount
//   - Guest: an individual person, always linked to exactly one Party
//   - RSVP: the response fields carried by a Party
//
// # Legacy Models (v1, guest-centric)
//
//   - LegacyGuest: a self-contained guest carrying its own RSVP fields and an
//     optional plus one
//
// Legacy guests are retired in place by the migration package, which moves
// their RSVP fields onto a new Party and extracts the plus one into a
// standalone Guest.
//
// # Design Principles
//
//  1. Guests never hold RSVP state in v2; every RSVP-facing field is read
//     through from the owning Party
//  2. Relationships use ID strings instead of pointers
//  3. Optional values that must distinguish "unset" from zero are pointers
package models
