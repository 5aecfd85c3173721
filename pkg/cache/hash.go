package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// hashKey builds "<kind>:<sha256>" over the JSON encoding of parts.
func hashKey(kind string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return kind + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// SpecHash hashes a diagram spec with insignificant JSON whitespace removed,
// so reformatted specs share cache entries. Input that is not valid JSON is
// hashed as is; it fails validation before anything is cached.
func SpecHash(data []byte) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return Hash(data)
	}
	return Hash(buf.Bytes())
}
