package utils

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

const RandomIDLength = 8

// Slugify lowercases a name and collapses everything outside [a-z0-9]
// to hyphens, so ids stay safe inside URLs and object keys.
func Slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}

// RandomSuffix returns n random characters from the id alphabet.
func RandomSuffix(n int) string {
	b := make([]byte, n)
	max := big.NewInt(int64(len(idAlphabet)))
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the platform source is broken
			b[i] = idAlphabet[0]
			continue
		}
		b[i] = idAlphabet[idx.Int64()]
	}
	return string(b)
}

// NewFileID derives a file id from the original filename.
func NewFileID(filename string) string {
	return Slugify(filename) + "-" + RandomSuffix(RandomIDLength)
}

// NewFolderID derives a folder id from a validated folder name.
// Folder names allow spaces, which collapse into single hyphens.
func NewFolderID(name string) string {
	slug := strings.Join(strings.Fields(strings.ToLower(name)), "-")
	return slug + "-" + RandomSuffix(RandomIDLength)
}

// ObjectKey builds the store-side path for a file. Anonymous uploads
// live under a shared "anonymous" namespace.
func ObjectKey(ownerID *string, fileID, filename string) string {
	owner := "anonymous"
	if ownerID != nil && *ownerID != "" {
		owner = *ownerID
	}
	return owner + "/" + fileID + "/" + filename
}
