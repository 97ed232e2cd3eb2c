// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - VectorStore: Persists documents with their vectors and ranks them by similarity
//   - EmbeddingProvider: Maps text to a fixed-length vector
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - GenerationProvider: Produces answers. Without it, queries return documents with an explanatory answer.
//   - PromptStore: User-editable prompt templates. Without it, built-in templates are used.
//   - ModelLister: Lists models a generation provider can serve.
//   - NormaliserRegistry: Extracts text from document files for ingestion.
//   - ContentSplitter: Splits long extracted text into section documents.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
