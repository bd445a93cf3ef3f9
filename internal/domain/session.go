package domain

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

// Session tracks one conversation. The token is opaque to clients; they only
// round-trip it.
type Session struct {
	Token     string    `json:"token"`
	Messages  []Message `json:"messages,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TokenPrefix starts every session token.
const TokenPrefix = "conv_"

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// tokenSuffixLen matches the historical token shape; the suffix is random
// but not cryptographically unique. A collision merges two conversations,
// which is acceptable for this non-security-sensitive domain.
const tokenSuffixLen = 9

// NewToken mints a session token of the form conv_<ms-epoch>_<base36 suffix>.
func NewToken() string {
	var b strings.Builder
	b.WriteString(TokenPrefix)
	b.WriteString(strconv.FormatInt(time.Now().UnixMilli(), 10))
	b.WriteByte('_')
	for i := 0; i < tokenSuffixLen; i++ {
		b.WriteByte(base36[rand.IntN(len(base36))])
	}
	return b.String()
}
