package services

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// AvatarResolver resolves a profile image URL for an email address. It never
// returns an error: any failure is reported as a nil URL, so callers cannot
// accidentally propagate a third-party outage.
type AvatarResolver interface {
	Resolve(email string) *string
}

// GravatarResolver resolves avatars against the Gravatar service.
type GravatarResolver struct {
	client *http.Client
}

// NewGravatarResolver creates a GravatarResolver with a short request timeout.
func NewGravatarResolver() *GravatarResolver {
	return &GravatarResolver{
		client: &http.Client{Timeout: 3 * time.Second},
	}
}

// Resolve returns the Gravatar image URL for the email, or nil when the
// service is unreachable or has no image for it.
func (g *GravatarResolver) Resolve(email string) *string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	sum := md5.Sum([]byte(normalized))
	url := fmt.Sprintf("https://www.gravatar.com/avatar/%s", hex.EncodeToString(sum[:]))

	// d=404 makes Gravatar answer 404 instead of a generated placeholder,
	// which tells us whether an image actually exists.
	resp, err := g.client.Head(url + "?d=404")
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil
	}
	return &url
}

// NullAvatarResolver always resolves to no avatar. Used in tests and when the
// external lookup is disabled.
type NullAvatarResolver struct{}

// Resolve returns nil for every email.
func (NullAvatarResolver) Resolve(string) *string {
	return nil
}
