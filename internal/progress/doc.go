// Package progress connects a log hub to a progress target. A Handler turns
// every log entry into one Step on the target, and a Scope ties the target's
// lifetime to the registration: opening a scope shows the target and attaches
// the handler, closing it detaches the handler and closes the target, once,
// on every exit path.
package progress
