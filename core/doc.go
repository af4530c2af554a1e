// Package core contains the relay domain contracts, registries, validation and
// the dispatch pipeline. Integration adapters and transports depend on this
// package; core must not depend on provider-specific or transport-specific
// code. Adapter construction is injected through AdapterFactory values.
package core
