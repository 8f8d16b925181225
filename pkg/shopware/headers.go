package shopware

// Request headers controlling the admin API's bulk write behavior, mainly
// on the /_action/sync endpoint. Combine them in the headers argument of a
// request, for instance HeadersIndexingDisable with HeadersFailOnErrorOff
// for a large import whose index update runs later.
var (
	// HeadersWriteInSeparateTransactions writes each sync operation in its
	// own transaction. This is the remote default.
	HeadersWriteInSeparateTransactions = map[string]string{"single-operation": "false"}

	// HeadersWriteInSingleTransaction wraps all sync operations in one
	// transaction, failing or succeeding as a whole.
	HeadersWriteInSingleTransaction = map[string]string{"single-operation": "true"}

	// HeadersIndexingSynchronous runs data indexing within the request.
	// This is the remote default.
	HeadersIndexingSynchronous = map[string]string{"indexing-behavior": "null"}

	// HeadersIndexingQueue defers data indexing to the message queue.
	HeadersIndexingQueue = map[string]string{"indexing-behavior": "use-queue-indexing"}

	// HeadersIndexingDisable skips data indexing entirely.
	HeadersIndexingDisable = map[string]string{"indexing-behavior": "disable-indexing"}

	// HeadersFailOnErrorOn aborts a bulk write on the first record error.
	// This is the remote default.
	HeadersFailOnErrorOn = map[string]string{"fail-on-error": "true"}

	// HeadersFailOnErrorOff continues a bulk write past individual record
	// errors and reports them in the response instead.
	HeadersFailOnErrorOff = map[string]string{"fail-on-error": "false"}
)

// MergeHeaders folds several header sets into one map, later sets winning
// on key collisions.
func MergeHeaders(sets ...map[string]string) map[string]string {
	merged := map[string]string{}
	for _, set := range sets {
		for key, value := range set {
			merged[key] = value
		}
	}
	return merged
}
