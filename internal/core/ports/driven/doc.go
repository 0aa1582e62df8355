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
//   - EmbeddingService: Turns document content into vectors
//   - VectorStoreDialer: Connects to a vector index endpoint
//   - VectorStore / VectorCollection: Collection lifecycle, upsert and similarity search
//   - RecordLoader: Reads local JSON snapshots
//   - Crawler: Fetches and splits web pages into raw records
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - IngestionLog: Ledger of ingestion runs. Without it, history is not recorded.
//   - NormaliserRegistry: Page text extraction used by the crawler.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
