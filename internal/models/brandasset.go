package models

// BrandMediaType categorizes brand-owned media
type BrandMediaType string

const (
	BrandMediaLogo      BrandMediaType = "logo"
	BrandMediaPhoto     BrandMediaType = "photo"
	BrandMediaVideo     BrandMediaType = "video"
	BrandMediaGraphic   BrandMediaType = "graphic"
	BrandMediaWatermark BrandMediaType = "watermark"
)

// BrandAsset is a brand-owned media candidate. Owned by the external
// brand-media store; this service only reads it.
type BrandAsset struct {
	ID              string         `json:"id" dynamodbav:"Id"`
	Name            string         `json:"name" dynamodbav:"Name"`
	MediaType       BrandMediaType `json:"media_type" dynamodbav:"MediaType"`
	EntityID        string         `json:"entity_id" dynamodbav:"EntityId"`
	EntityName      string         `json:"entity_name" dynamodbav:"EntityName"`
	URL             string         `json:"url" dynamodbav:"Url"`
	ThumbnailURL    string         `json:"thumbnail_url,omitempty" dynamodbav:"ThumbnailUrl,omitempty"`
	MatchKeywords   []string       `json:"match_keywords" dynamodbav:"MatchKeywords"`
	ExcludeKeywords []string       `json:"exclude_keywords" dynamodbav:"ExcludeKeywords"`
	UsageContexts   []string       `json:"usage_contexts" dynamodbav:"UsageContexts"`
	Placement       string         `json:"placement,omitempty" dynamodbav:"Placement,omitempty"`
	Priority        int            `json:"priority" dynamodbav:"Priority"`
	IsDefault       bool           `json:"is_default" dynamodbav:"IsDefault"`
	Active          bool           `json:"active" dynamodbav:"Active"`
}
