// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Index: The external full-text index (writer, reader, query execution)
//   - Parser: Extracts a text representation from one file format
//   - Segmenter: Splits continuous text into words
//
// # Optional Interfaces
//
//   - OCREngine: Local optical recognition. Without it, and without a remote
//     service URL, image content degrades to a basic descriptor.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or parser package
package driven
