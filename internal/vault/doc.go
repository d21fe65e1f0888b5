// Package vault is the filesystem host of the link analysis.
//
// Vault enumerates the Markdown documents below a root directory and
// implements graph.FileSource. MetadataCache parses the outgoing links of a
// document and keeps them in an LRU cache validated by modification time
// and size; it implements graph.LinkCache.
package vault
