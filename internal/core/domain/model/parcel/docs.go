// Package parcel models a shipped package and the lifecycle it moves through.
//
// The package includes:
//   - Status: the five lifecycle states plus the invalid Unknown zero value
//   - the transition policy: the single table of allowed status changes
//   - StatusEvent: one entry of a package's append-only history
//   - Package: the aggregate root owning identity, parties and history
//   - PackageCreated and StatusChanged: domain events recorded by the aggregate
//
// Lifecycle:
//
//	Created ──> Sent ──> Accepted
//	   │         │ ▲
//	   │         ▼ │
//	   │       Returned
//	   │         │
//	   └────┬────┘
//	        ▼
//	     Canceled
//
// Sent and Returned may also move to Canceled. Accepted and Canceled are
// terminal.
//
// Key business rules:
//   - a package's current status and last update time are always those of the
//     last history event
//   - every status change is checked against the transition policy before
//     anything is modified
//   - history is never rewritten; a rejected change leaves the package untouched
package parcel
