package clone

import "github.com/loyaltyops/promo-migrator/internal/models"

// NameOverrides maps requested assets to destination names. The loose wire
// shapes (appNames, assetNames) are decoded into this structure at the API
// boundary; resolution logic only ever sees typed keys.
type NameOverrides struct {
	// ByKindAndID holds kind-specific, id-keyed overrides. Highest precedence;
	// disambiguates kinds whose ids collide.
	ByKindAndID map[models.AssetKind]map[string]string
	// ByID holds flat id-keyed overrides.
	ByID map[string]string
	// NewName is a single flat name, usable only when exactly one asset is
	// requested — applying one name to many assets would silently collide.
	NewName string
}

// explicit returns the override name for an asset, if any, honoring the
// precedence kind+id > id > newName. assetCount gates the NewName fallback.
func (o NameOverrides) explicit(a models.AssetRef, assetCount int) (string, bool) {
	if byID, ok := o.ByKindAndID[a.Kind]; ok {
		if name, ok := byID[a.ID]; ok && name != "" {
			return name, true
		}
	}
	if name, ok := o.ByID[a.ID]; ok && name != "" {
		return name, true
	}
	if o.NewName != "" && assetCount == 1 {
		return o.NewName, true
	}
	return "", false
}

// ResolveName computes the destination name for an asset: overrides in
// precedence order, else "{sourceName} (Copy)".
func ResolveName(a models.AssetRef, overrides NameOverrides, assetCount int, sourceName string) string {
	if name, ok := overrides.explicit(a, assetCount); ok {
		return name
	}
	return sourceName + " (Copy)"
}
