// Package driving defines the interfaces through which the outside world
// (CLI, tests) drives the core services.
package driving
