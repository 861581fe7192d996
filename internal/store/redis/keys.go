package redis

const (
	// KeyPrefixLink is the prefix for link record keys
	KeyPrefixLink = "pl:link:"
	// KeyLinkURLs is the set of every stored link URL
	KeyLinkURLs = "pl:links:urls"
	// KeyLinksByCreated is the sorted set of link IDs scored by creation time (unix ms)
	KeyLinksByCreated = "pl:links:by_created"
	// KeyFeedback is the list of feedback entries, newest first
	KeyFeedback = "pl:feedback"
)

// LinkKey returns the Redis key for a link by ID
func LinkKey(id string) string {
	return KeyPrefixLink + id
}

