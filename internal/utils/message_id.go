package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateMessageID returns an RFC 5322 Message-ID on domain. The local part
// is a microsecond timestamp and a random id, followed by a short hash of
// metadata when given, so one batch yields a distinct id per recipient.
func GenerateMessageID(domain, metadata string) string {
	localPart := strconv.FormatInt(time.Now().UnixMicro(), 10) + "." + randomID(12)
	if metadata != "" {
		sum := sha256.Sum256([]byte(metadata))
		localPart += "." + hex.EncodeToString(sum[:4])
	}
	return "<" + localPart + "@" + domain + ">"
}

func GenerateNanoIDWithPrefix(prefix string, size int) string {
	return prefix + "_" + randomID(size)
}

func randomID(size int) string {
	id, err := gonanoid.Generate(idAlphabet, size)
	if err != nil {
		panic(err)
	}
	return id
}
