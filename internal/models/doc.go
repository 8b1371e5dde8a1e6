// Package models defines the core domain models for Hisab.
//
// # Model Overview
//
//   - Event: the aggregate a group of people share: details, participants,
//     expense items, and the computed report
//   - Person: a participant in an event (not necessarily a registered user)
//   - ExpenseItem: a single expense with flexible payment and liability
//   - Report: derived financial summary, recomputed in full on every change
//   - User: a registered account that owns events
//
// # Design Principles
//
//  1. The Report is derived data. It is never hand-edited; the engine
//     recomputes it from items and participants on every mutation.
//  2. All Report fields are total with explicit zero defaults, so consumers
//     never null-check.
//  3. Relationships use ID strings instead of pointers to avoid circular
//     references.
//  4. JSON tags define the persisted wire shape of the report; schema
//     evolution must stay backward-readable.
package models
