package room

import (
	"math/rand/v2"
	"strings"
)

// Codes skip I and O so they are not misread as 1 and 0.
const (
	codeAlphabet    = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	codeLength      = 4
	maxCodeAttempts = 100
)

// GenerateCode returns a random room code for which taken reports false.
// After maxCodeAttempts collisions the last candidate is returned anyway.
func GenerateCode(taken func(code string) bool) string {
	code := randomCode()
	for range maxCodeAttempts {
		if !taken(code) {
			return code
		}
		code = randomCode()
	}
	return code
}

// NormalizeCode uppercases user-typed codes.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func randomCode() string {
	var b strings.Builder
	b.Grow(codeLength)
	for range codeLength {
		b.WriteByte(codeAlphabet[rand.IntN(len(codeAlphabet))])
	}
	return b.String()
}
