package utils

import "crypto/rand"

const (
	codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength  = 6
)

// GenerateAccessCode returns a random 6-character uppercase alphanumeric code,
// e.g. "K8J2X1". Uniqueness is the caller's job: the classroom controller
// regenerates on collision before persisting.
func GenerateAccessCode() string {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the OS entropy source is broken;
		// nothing sensible to fall back to.
		panic(err)
	}
	for i, b := range buf {
		buf[i] = codeCharset[int(b)%len(codeCharset)]
	}
	return string(buf)
}
