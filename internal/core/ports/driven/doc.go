// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - FileSearchService: The remote file-search backend (stores, documents,
//     long-running operations, grounded search)
//   - SettingsStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - UpdateJournal: Durable buffering for metadata updates. Without it,
//     updates still run but a partial failure cannot be replayed locally.
//   - RepositorySource: Repository reading for bulk ingestion. Only needed
//     by the sync commands.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
