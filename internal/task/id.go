package task

import (
	"crypto/rand"
	"crypto/sha256"
	"math/big"
	"time"
)

const (
	minIDLength = 4
	maxIDLength = 10
	saltSize    = 16
	idBase      = 36
)

// NewID returns a short base36 ID for a task named name. It uses the shortest
// prefix, from minIDLength characters up, of a salted hash that exists does
// not report as taken. If every prefix is taken the longest is returned.
func NewID(name, projectID string, createdAt time.Time, exists func(string) bool) string {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		panic("crypto/rand failed: " + err.Error())
	}

	h := sha256.New()
	h.Write([]byte(projectID))
	h.Write([]byte{0})
	h.Write([]byte(name))
	h.Write([]byte(createdAt.UTC().Format(time.RFC3339Nano)))
	h.Write(salt)

	digits := new(big.Int).SetBytes(h.Sum(nil)).Text(idBase)
	for len(digits) < maxIDLength {
		digits = "0" + digits
	}

	for n := minIDLength; n < maxIDLength; n++ {
		if !exists(digits[:n]) {
			return digits[:n]
		}
	}
	return digits[:maxIDLength]
}
