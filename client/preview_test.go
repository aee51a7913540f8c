package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolvePreview_Image(t *testing.T) {
	asset := &Asset{Format: "png", SecureURL: "https://cdn.test/assets/image/x.png"}

	plan := ResolvePreview(asset, 320)
	assert.Equal(t, PreviewImage, plan.Kind)
	assert.Equal(t, asset.SecureURL, plan.URL)
	assert.Equal(t, "https://cdn.test/assets/image/x.png?width=320", plan.RenderURL)
}

func TestResolvePreview_ImageWithoutWidth(t *testing.T) {
	asset := &Asset{Format: "jpg", SecureURL: "https://cdn.test/x.jpg"}

	plan := ResolvePreview(asset, 0)
	assert.Equal(t, PreviewImage, plan.Kind)
	assert.Equal(t, asset.SecureURL, plan.RenderURL)
}

func TestResolvePreview_PDF(t *testing.T) {
	asset := &Asset{Format: "pdf", SecureURL: "https://cdn.test/assets/raw/x.pdf"}

	plan := ResolvePreview(asset, 320)
	assert.Equal(t, PreviewPDF, plan.Kind)
	assert.Equal(t, "https://cdn.test/assets/raw/x.pdf#view=FitH", plan.RenderURL)
}

func TestResolvePreview_FallbackForDocuments(t *testing.T) {
	for _, format := range []string{"doc", "docx", "ppt", "pptx", "txt"} {
		asset := &Asset{Format: format, SecureURL: "https://cdn.test/x." + format}

		plan := ResolvePreview(asset, 320)
		assert.Equal(t, PreviewFallback, plan.Kind, format)
		assert.Equal(t, asset.SecureURL, plan.URL)
		assert.Empty(t, plan.RenderURL)
	}
}

func TestSuggestedFilename(t *testing.T) {
	tests := []struct {
		title  string
		format string
		want   string
	}{
		{"Linear Algebra 2021", "pdf", "linear-algebra-2021.pdf"},
		{"  CSC 101 -- Final!!", "docx", "csc-101-final.docx"},
		{"***", "png", "download.png"},
		{"Notes", "", "notes"},
	}

	for _, tt := range tests {
		asset := &Asset{Title: tt.title, Format: tt.format}
		assert.Equal(t, tt.want, SuggestedFilename(asset))
	}
}
