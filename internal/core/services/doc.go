// Package services implements the driving ports.
//
//   - RetrieverService: embeds a question, searches the vector index and
//     generates an attributed answer
//   - ToolService: the five disbursement tools, each a question template
//     over the retriever
//   - IndexService: load, chunk, embed and upsert the guide in batches of
//     100, with optional resumable checkpoints
//   - SettingsService: stored settings overlaid with environment credentials
//
// Services depend only on driven ports; adapters are injected by the caller.
package services
