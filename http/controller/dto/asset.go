package dto

import (
	"encoding/json"
	"errors"

	"github.com/pastvault/asset-service/entity"
)

// TagList accepts either a comma-separated string or a JSON array of strings,
// mirroring what the web client sends on create and update.
type TagList []string

func (t *TagList) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		*t = TagList{asString}
		return nil
	}

	var asList []string
	if err := json.Unmarshal(data, &asList); err == nil {
		*t = TagList(asList)
		return nil
	}

	return errors.New("tags must be a string or a list of strings")
}

type UpdateAssetRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Tags        *TagList `json:"tags"`
	IsPublic    *bool    `json:"isPublic"`
}

// AssetResponse is the wire shape of one asset record, the entity fields plus
// the derived display values.
type AssetResponse struct {
	*entity.Asset
	FormattedSize string `json:"formattedSize"`
	AspectRatio   string `json:"aspectRatio,omitempty"`
}

func NewAssetResponse(asset *entity.Asset) AssetResponse {
	return AssetResponse{
		Asset:         asset,
		FormattedSize: asset.FormattedSize(),
		AspectRatio:   asset.AspectRatio(),
	}
}

func NewAssetResponseList(assets []entity.Asset) []AssetResponse {
	out := make([]AssetResponse, 0, len(assets))
	for i := range assets {
		out = append(out, NewAssetResponse(&assets[i]))
	}
	return out
}
