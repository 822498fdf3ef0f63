package publisher

// Publisher represents a service for publishing run summaries
type Publisher interface {
	// Publish publishes a message to the stream under the given field key
	Publish(key string, message []byte) error

	// TrimStreams trims the stream to the configured maximum length
	TrimStreams() error

	// Close closes the publisher connection
	Close() error
}
