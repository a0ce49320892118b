package image

import (
	"testing"

	"recipe-assistant/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
)

func newTestService() *Service {
	return NewService(&config.ImageConfig{SearchURL: "https://source.unsplash.com/featured/", Size: "800x800"})
}

func TestSearchURL(t *testing.T) {
	svc := newTestService()

	got := svc.SearchURL("Tomato Omelette", []string{"eggs", "tomato", "salt", "pepper"})
	assert.Equal(t,
		"https://source.unsplash.com/featured/800x800?tomato%20omelette%2C%20eggs%2C%20tomato%2C%20salt%2C%20plated%20dish%2C%20food%20photography%2C%20high%20detail",
		got)
}

func TestSearchURL_EmptyTitle(t *testing.T) {
	got := newTestService().SearchURL("  ", nil)
	assert.Contains(t, got, "800x800?recipe%2C%20%2C%20plated%20dish")
}

func TestFallbackRotates(t *testing.T) {
	svc := newTestService()
	n := len(FallbackImages)

	assert.Equal(t, FallbackImages[0], svc.Fallback(0))
	assert.Equal(t, FallbackImages[1], svc.Fallback(n+1))
	assert.Equal(t, FallbackImages[2], svc.Fallback(-2))
}

func TestLink(t *testing.T) {
	svc := newTestService()
	imageURL, fallback := svc.Link("Soup", []string{"water"}, 1)
	assert.Contains(t, imageURL, "soup%2C%20water")
	assert.Equal(t, FallbackImages[1], fallback)
}
