package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDerivesIsActive(t *testing.T) {
	tests := []struct {
		name     string
		settings DomainSettings
		active   bool
	}{
		{"empty", DomainSettings{}, false},
		{"whitespace only", DomainSettings{CustomDomain: "  "}, false},
		{"custom domain", DomainSettings{CustomDomain: "blog.example.com"}, true},
		{"subdomain", DomainSettings{Subdomain: "mysite"}, true},
		{"stale active flag cleared", DomainSettings{IsActive: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.settings.Normalize()
			assert.Equal(t, tt.active, tt.settings.IsActive)
		})
	}
}

func TestPublicURLPrefersCustomDomain(t *testing.T) {
	s := DomainSettings{CustomDomain: "blog.example.com", Subdomain: "mysite"}
	assert.Equal(t, "https://blog.example.com/abc123", s.PublicURL("abc123"))

	s.CustomDomain = ""
	assert.Equal(t, "https://mysite.blog.ai/abc123", s.PublicURL("abc123"))

	s.Subdomain = ""
	assert.Empty(t, s.PublicURL("abc123"))
}

func TestBlogPatchApplyOnlySetFields(t *testing.T) {
	post := BlogPost{
		VideoTitle:  "Title",
		BlogContent: "Content",
		DesiredTone: "casual",
		IsPublished: false,
	}

	content := "New content"
	published := true
	BlogPatch{BlogContent: &content, IsPublished: &published}.Apply(&post)

	assert.Equal(t, "Title", post.VideoTitle)
	assert.Equal(t, "New content", post.BlogContent)
	assert.Equal(t, "casual", post.DesiredTone)
	assert.True(t, post.IsPublished)
}
