package client

import (
	"fmt"
	"net/url"
)

// PreviewKind selects how a file should be rendered inline.
type PreviewKind int

const (
	// PreviewImage renders a transformed thumbnail URL in an <img> element.
	PreviewImage PreviewKind = iota
	// PreviewPDF embeds the document in a frame.
	PreviewPDF
	// PreviewFallback offers open/download actions; no inline renderer
	// exists for word-processor and slide formats.
	PreviewFallback
)

// PreviewPlan is the rendering strategy for one asset.
type PreviewPlan struct {
	Kind      PreviewKind
	URL       string // source file URL
	RenderURL string // URL to render inline; empty for PreviewFallback
}

// ResolvePreview dispatches on the asset's format: images get a thumbnail
// transform, PDFs an embed frame, everything else the fallback panel.
func ResolvePreview(asset *Asset, thumbWidth int) PreviewPlan {
	switch asset.Format {
	case "jpg", "jpeg", "png", "gif":
		return PreviewPlan{
			Kind:      PreviewImage,
			URL:       asset.SecureURL,
			RenderURL: thumbnailURL(asset.SecureURL, thumbWidth),
		}
	case "pdf":
		return PreviewPlan{
			Kind:      PreviewPDF,
			URL:       asset.SecureURL,
			RenderURL: asset.SecureURL + "#view=FitH",
		}
	default:
		return PreviewPlan{
			Kind: PreviewFallback,
			URL:  asset.SecureURL,
		}
	}
}

// thumbnailURL appends a CDN resize hint to the source URL.
func thumbnailURL(src string, width int) string {
	if width <= 0 {
		return src
	}
	u, err := url.Parse(src)
	if err != nil {
		return src
	}
	q := u.Query()
	q.Set("width", fmt.Sprintf("%d", width))
	u.RawQuery = q.Encode()
	return u.String()
}
