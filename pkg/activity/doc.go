// Package activity fans store transitions out to hooks. Stores build events
// with BuildStateChangedEvent or BuildStateReplacedEvent and hand them to an
// Emitter; hooks such as usersink.Hook forward them to audit sinks.
package activity
