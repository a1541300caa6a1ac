package rand

// Credit to https://www.calhoun.io/creating-random-strings-in-go/

import (
	"math/rand"
	"time"
)

// Timeline events and notes get short lowercase base-36 identifiers,
// generated on the client when an entry is confirmed.
const charset = "abcdefghijklmnopqrstuvwxyz0123456789"

const idLength = 9

var seededRand *rand.Rand = rand.New(
	rand.NewSource(time.Now().UnixNano()))

func StringWithCharset(length int, charset string) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[seededRand.Intn(len(charset))]
	}
	return string(b)
}

func String(length int) string {
	return StringWithCharset(length, charset)
}

// ID returns a fresh entry identifier.
func ID() string {
	return String(idLength)
}
