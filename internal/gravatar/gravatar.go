package gravatar

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strconv"
	"strings"

	"github.com/QL1STY/Badminton-IPBA-Project/internal/config"
)

const baseURL = "https://www.gravatar.com/avatar/"

// Resolver builds avatar URLs for club members.
type Resolver struct {
	cfg *config.GravatarConfig
}

// New returns a Resolver. A nil or disabled config yields empty URLs.
func New(cfg *config.GravatarConfig) *Resolver {
	return &Resolver{cfg: cfg}
}

// URL returns the avatar URL for the given e-mail address, or "" if avatars are disabled.
func (r *Resolver) URL(email string) string {
	if r == nil || r.cfg == nil || !r.cfg.Enabled {
		return ""
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ""
	}

	sum := sha256.Sum256([]byte(email))
	u := baseURL + hex.EncodeToString(sum[:])

	params := url.Values{}
	if r.cfg.DefaultImage != "" {
		params.Set("d", r.cfg.DefaultImage)
	}
	if r.cfg.Rating != "" {
		params.Set("r", r.cfg.Rating)
	}
	if r.cfg.Size > 0 {
		params.Set("s", strconv.Itoa(r.cfg.Size))
	}
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}
