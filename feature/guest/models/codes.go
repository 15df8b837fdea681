package models

import (
	"crypto/rand"
	"math/big"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// codeAlphabet is the character set for the random code suffix.
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// codeFallbackPrefix is used when a name yields no ASCII letters at all.
const codeFallbackPrefix = "INVITAD"

var codeStripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// GenerateGuestCode builds a code like "ANAGARC-8H2K": a stable prefix derived
// from the name plus a 4-character random suffix. isUnique is consulted per
// attempt; on collision a fresh suffix is drawn. With a 36^4 suffix space the
// loop terminates after one attempt in practice.
func GenerateGuestCode(fullName string, isUnique func(string) bool) string {
	base := codePrefix(fullName)
	for {
		code := base + "-" + randomSuffix(4)
		if isUnique(code) {
			return code
		}
	}
}

// codePrefix reduces a name to at most 7 uppercase ASCII letters.
func codePrefix(fullName string) string {
	txt := strings.ToUpper(strings.TrimSpace(fullName))
	if stripped, _, err := transform.String(codeStripMarks, txt); err == nil {
		txt = stripped
	}

	var b strings.Builder
	for _, r := range txt {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte(byte(r))
			if b.Len() == 7 {
				break
			}
		}
	}
	if b.Len() == 0 {
		return codeFallbackPrefix
	}
	return b.String()
}

func randomSuffix(n int) string {
	max := big.NewInt(int64(len(codeAlphabet)))
	var b strings.Builder
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failing means the platform entropy source is broken;
			// there is no reasonable recovery for code issuance.
			panic(err)
		}
		b.WriteByte(codeAlphabet[idx.Int64()])
	}
	return b.String()
}
