package badger

// Key prefixes for different data types
const (
	documentPrefix = "doc"

	lexicalStatsKey = "idx:lexical"
	projectionKey   = "idx:projection"
	corpusMetaKey   = "idx:meta"
)

// makeDocumentKey generates a key for a corpus document by ID.
// Document IDs are stored verbatim so key order follows ID order.
func makeDocumentKey(id string) []byte {
	return []byte(documentPrefix + ":" + id)
}
