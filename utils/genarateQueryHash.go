package utils

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
)

// GenerateHash builds two Redis keys for a generated export file: a
// search key derived from the query alone, and a storage key that also
// carries the day so stale files age out naturally.
func GenerateHash(resourceType string, filters map[string]string, day string) (string, string) {
	keys := make([]string, 0, len(filters))
	for key := range filters {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	query := fmt.Sprintf("resource=%s", resourceType)
	for _, key := range keys {
		query += fmt.Sprintf("&%s=%s", key, filters[key])
	}

	searchSum := sha256.Sum256([]byte(query))
	searchHash := hex.EncodeToString(searchSum[:])

	// The storage key embeds the search hash so FindMatchingFile can
	// locate it with a pattern scan.
	searchKey := fmt.Sprintf("%s:%s", resourceType, searchHash)
	storageKey := fmt.Sprintf("%s:%s:%s", resourceType, searchHash, day)

	return searchKey, storageKey
}

// FindMatchingFile looks up a previously generated export file by its
// search key. Returns redis.Nil when no file has been cached yet.
func FindMatchingFile(rdb *redis.Client, searchHash string) (string, error) {
	iter := rdb.Scan(context.Background(), 0, fmt.Sprintf("*%s*", searchHash), 1).Iterator()
	for iter.Next(context.Background()) {
		filePath, err := rdb.Get(context.Background(), iter.Val()).Result()
		if err == nil {
			return filePath, nil
		}
	}
	if err := iter.Err(); err != nil {
		return "", err
	}
	return "", redis.Nil
}
