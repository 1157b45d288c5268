// Package store defines interfaces for persisting projects, memberships,
// tasks and notes, along with the shared error vocabulary and transaction
// helper that every implementation uses.
package store
