// Package store provides the state container and subscriber registry behind
// a globalstore.Store.
//
// This package is internal to globalstore. It holds the two pieces of shared
// data a store owns and the rules for changing them:
//
//   - [State]: the key/value snapshot handed to components and handlers
//   - [Container]: holds the current snapshot and replaces it by shallow merge
//   - [Registry]: ordered set of [Observer] values notified on every change
//
// Snapshots are never mutated once published. Every change produces a new
// map, so a caller that kept an old snapshot keeps an unchanged view.
//
// Users of the globalstore library should not need to interact with this
// package directly. The public types are re-exported from the root package.
package store
