package prompts

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// Prompt is a rendered system/user pair ready for a chat completion.
type Prompt struct {
	Name    string
	Set     string
	Version int
	System  string
	User    string
}

// Fingerprint identifies the exact rendered prompt; audit rows store it.
func (p Prompt) Fingerprint() string {
	h := sha256.Sum256([]byte(
		strings.TrimSpace(p.Name) + "|" +
			strings.TrimSpace(p.Set) + "|" +
			strconv.Itoa(p.Version) + "|" +
			strings.TrimSpace(p.System) + "|" +
			strings.TrimSpace(p.User),
	))
	return hex.EncodeToString(h[:])
}
