package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentKey(t *testing.T) {
	k1 := DocumentKey("u-1", "pan", "My PAN.PDF")
	k2 := DocumentKey("u-1", "pan", "My PAN.PDF")

	assert.True(t, strings.HasPrefix(k1, "documents/u-1/pan-"))
	assert.True(t, strings.HasSuffix(k1, ".pdf"))
	assert.NotEqual(t, k1, k2)
}

func TestExtractPublicID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"versioned", "https://res.cloudinary.com/demo/image/upload/v1712345/onboarding/documents/u-1/pan-x.pdf", "onboarding/documents/u-1/pan-x"},
		{"unversioned", "https://res.cloudinary.com/demo/image/upload/onboarding/photo.png", "onboarding/photo"},
		{"folder starting with v", "https://res.cloudinary.com/demo/image/upload/vendors/logo.png", "vendors/logo"},
		{"no upload segment", "https://example.com/files/a.pdf", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractPublicID(tt.url))
		})
	}
}

func TestResourceTypeOf(t *testing.T) {
	assert.Equal(t, "raw", resourceTypeOf("https://res.cloudinary.com/demo/raw/upload/v1/a.docx"))
	assert.Equal(t, "image", resourceTypeOf("https://res.cloudinary.com/demo/image/upload/v1/a.pdf"))
	assert.Equal(t, "image", resourceTypeOf("::bad"))
}
