// Package kernel holds the value objects shared by the tracking domain.
//
// The package includes:
//   - UUID: the identifier assigned to a package by its store
//   - Contact: name, address and phone of a sender or recipient
//   - TrackingNumber: the public "PKG" + date + suffix reference and its generator
//
// All of them are immutable, validate on construction and treat their zero
// value as invalid.
package kernel
