// Package memory persists agent sessions between runs.
//
// Persistence model:
//   - A session is a YAML document holding chat text and the item ledger.
//   - Only text messages are stored (role + text). Tool blocks are transient.
//   - Items created by the create_item tool are recorded in the ledger.
package memory
