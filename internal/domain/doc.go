// Package domain contains the core domain entities and value objects for gelfhub.
//
// This package represents the innermost layer of the Clean Architecture. It has
// no dependencies on infrastructure concerns (TCP, HTTP, logging) and contains
// only the data types and invariants of the forwarding pipeline.
//
// # Entities
//
//   - [Message]: One validated GELF record pulled off a connection's byte stream
//   - [Outcome]: The terminal classification of a delivery cycle
//   - [RetryPolicy]: Bounds on delivery attempts and the backoff schedule
//
// # Design Principles
//
// Domain entities are:
//   - Immutable after construction (where practical)
//   - Free of infrastructure dependencies
//   - Testable without mocks or external systems
package domain
