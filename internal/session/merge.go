package session

// MergeTranscript appends a newly submitted fragment to the accumulated
// transcript. The transcript only ever grows; no deduplication is done, so
// submitting the same fragment twice duplicates it.
func MergeTranscript(existing, incoming string) string {
	if existing == "" {
		return incoming
	}
	return existing + "\n" + incoming
}
