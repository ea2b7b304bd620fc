package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

/**
 * @file: ulid.go
 * @description: ulid
 */

// GetULID generates a lexicographically sortable id.
func GetULID() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
