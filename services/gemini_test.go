package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlogPromptIncludesTitle(t *testing.T) {
	prompt := blogPrompt("How to Bake Bread", "", "")

	assert.Contains(t, prompt, `"How to Bake Bread"`)
	assert.Contains(t, prompt, "500-700 words")
	assert.NotContains(t, prompt, "target audience")
	assert.NotContains(t, prompt, "desired tone")
}

func TestBlogPromptAppendsAudienceAndTone(t *testing.T) {
	prompt := blogPrompt("Title", "home bakers", "friendly and practical")

	assert.Contains(t, prompt, "The target audience for this blog post is: home bakers.")
	assert.Contains(t, prompt, "The desired tone for this blog post is: friendly and practical.")
}

func TestBlogPromptIgnoresWhitespaceOnlyParameters(t *testing.T) {
	prompt := blogPrompt("Title", "   ", "\t")

	assert.NotContains(t, prompt, "target audience")
	assert.NotContains(t, prompt, "desired tone")
}
