// Package flux provides the observable state holder used by immstore: a
// single state slot, an update entry point that delegates to an injected
// AssignFunc, wholesale replacement, and change listeners.
//
// The package stays agnostic of the state representation. immstore plugs in
// an AssignFunc that merges persistent records; a plain map store could use
// one that copies keys.
//
// Action dispatch is intentionally absent. Callers own the event loop and
// call SetState from their action handlers.
package flux
