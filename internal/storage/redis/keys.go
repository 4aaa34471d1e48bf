package redis

import "fmt"

// Key prefix for all stored data
const keyPrefix = "fakeout"

// questionsKey returns the Redis key for a topic's question set
func questionsKey(topic string) string {
	return fmt.Sprintf("%s:questions:%s", keyPrefix, topic)
}

// topicsIndexKey returns the Redis key for the SET of known topics
func topicsIndexKey() string {
	return fmt.Sprintf("%s:idx:topics", keyPrefix)
}

// historyKey returns the Redis key for the LIST of session summaries
func historyKey() string {
	return fmt.Sprintf("%s:history", keyPrefix)
}
