// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// Answering questions needs all three of:
//
//   - EmbeddingService: Turns passages and questions into vectors (Gemini)
//   - VectorIndex: Stores and searches vectors (Pinecone, Qdrant, memory)
//   - AnswerGenerator: Writes grounded answers from retrieved context (Gemini)
//
// Indexing additionally needs:
//
//   - PageOpener: Reads page text out of a PDF
//   - SectionClassifier: Labels pages with a guide section
//
// # Optional Interfaces
//
// These can be nil:
//
//   - CheckpointStore: Enables resuming an interrupted upsert
//   - PromptStore: Lets users edit the generation prompts
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or driving package
package driven
