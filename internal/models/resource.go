package models

import "fmt"

// Resource represents a generic remote API object (application, campaign, coupon, etc.).
type Resource map[string]interface{}

// AssetKind identifies a top-level object type that can be cloned.
type AssetKind string

const (
	KindApplication      AssetKind = "application"
	KindCampaignTemplate AssetKind = "campaign_template"
	KindLoyaltyProgram   AssetKind = "loyalty_program"
	KindGiveawayPool     AssetKind = "giveaway_pool"
	KindAudience         AssetKind = "audience"
	KindContentType      AssetKind = "content_type"
)

// PlatformFor returns the environment kind an asset kind belongs to.
func (k AssetKind) PlatformFor() string {
	if k == KindContentType {
		return PlatformCMS
	}
	return PlatformPromotions
}

// Valid reports whether k is a known asset kind.
func (k AssetKind) Valid() bool {
	switch k {
	case KindApplication, KindCampaignTemplate, KindLoyaltyProgram,
		KindGiveawayPool, KindAudience, KindContentType:
		return true
	}
	return false
}

// ParseAssetKind maps a wire-format type string (singular or plural) to an AssetKind.
func ParseAssetKind(s string) (AssetKind, error) {
	switch s {
	case "application", "applications":
		return KindApplication, nil
	case "campaign_template", "campaign_templates":
		return KindCampaignTemplate, nil
	case "loyalty_program", "loyalty_programs":
		return KindLoyaltyProgram, nil
	case "giveaway_pool", "giveaway_pools":
		return KindGiveawayPool, nil
	case "audience", "audiences":
		return KindAudience, nil
	case "content_type", "content_types":
		return KindContentType, nil
	}
	return "", fmt.Errorf("unknown asset kind %q", s)
}

// AssetRef identifies one top-level object requested for cloning.
type AssetRef struct {
	Kind AssetKind `json:"type"`
	ID   string    `json:"id"`
}

func (a AssetRef) String() string {
	return fmt.Sprintf("%s/%s", a.Kind, a.ID)
}
