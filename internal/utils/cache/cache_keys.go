package cache

import (
	"fmt"
	"strings"
)

type EntityType string

const (
	EntityUser       EntityType = "user"
	EntityFeeSources EntityType = "feesources"
)

type KeyType string

const (
	KeyID     KeyType = "id"
	KeySchool KeyType = "school"
)

// feeSourcesVersion is bumped whenever the cached snapshot layout changes.
const feeSourcesVersion = "v1"

// GenerateKey creates a standardized cache key
func GenerateKey(entity EntityType, keyType KeyType, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entity, keyType, value)
}

// FeeSourcesKey is the key of the cached fee source snapshot of a school.
func FeeSourcesKey(schoolID string) string {
	return GenerateKey(EntityFeeSources, KeySchool, feeSourcesVersion+":"+schoolID)
}

// FeeSourcesPattern matches every cached fee source snapshot.
func FeeSourcesPattern() string {
	return GenerateKey(EntityFeeSources, KeySchool, feeSourcesVersion+":*")
}

// ParseKey extracts entity, key type and value from a cache key
func ParseKey(key string) (entity, keyType, value string, ok bool) {
	parts := strings.SplitN(key, ":", 3)
	if len(parts) != 3 {
		return "", "", "", false
	}
	return parts[0], parts[1], parts[2], true
}
