// Package component provides a minimal component instance that implements
// [globalstore.Host].
//
// It models the parts of a UI framework a store depends on: a render
// function, a stable re-render trigger, and effects that run after mount and
// clean up on unmount. It is used by the globalstore CLI and tests, and shows
// what a binding for a real framework has to provide.
//
// An [Instance] is driven from one goroutine, the way a UI thread drives
// rendering. Notify, which stores call during dispatch, only marks the
// instance dirty and is safe from any goroutine; the re-render happens on the
// next [Instance.Flush].
package component
