package clone

import (
	"testing"

	"github.com/loyaltyops/promo-migrator/internal/models"
)

func TestResolveName_Precedence(t *testing.T) {
	app := models.AssetRef{Kind: models.KindApplication, ID: "7"}

	tests := []struct {
		name       string
		overrides  NameOverrides
		assetCount int
		expect     string
	}{
		{
			name: "kind+id override wins over everything",
			overrides: NameOverrides{
				ByKindAndID: map[models.AssetKind]map[string]string{
					models.KindApplication: {"7": "From KindAndID"},
				},
				ByID:    map[string]string{"7": "From ByID"},
				NewName: "From NewName",
			},
			assetCount: 1,
			expect:     "From KindAndID",
		},
		{
			name: "flat id override beats newName",
			overrides: NameOverrides{
				ByID:    map[string]string{"7": "From ByID"},
				NewName: "From NewName",
			},
			assetCount: 1,
			expect:     "From ByID",
		},
		{
			name:       "newName applies for a single asset",
			overrides:  NameOverrides{NewName: "From NewName"},
			assetCount: 1,
			expect:     "From NewName",
		},
		{
			name:       "newName is ignored for multi-asset batches",
			overrides:  NameOverrides{NewName: "From NewName"},
			assetCount: 2,
			expect:     "Checkout (Copy)",
		},
		{
			name:       "fallback appends (Copy) to the source name",
			overrides:  NameOverrides{},
			assetCount: 1,
			expect:     "Checkout (Copy)",
		},
		{
			name: "kind+id override for another kind does not apply",
			overrides: NameOverrides{
				ByKindAndID: map[models.AssetKind]map[string]string{
					models.KindLoyaltyProgram: {"7": "Loyalty Name"},
				},
			},
			assetCount: 1,
			expect:     "Checkout (Copy)",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveName(app, tc.overrides, tc.assetCount, "Checkout")
			if got != tc.expect {
				t.Errorf("ResolveName = %q, want %q", got, tc.expect)
			}
		})
	}
}

func TestNameOverrides_Explicit(t *testing.T) {
	a := models.AssetRef{Kind: models.KindAudience, ID: "3"}

	if _, ok := (NameOverrides{}).explicit(a, 1); ok {
		t.Error("empty overrides should not be explicit")
	}
	if _, ok := (NameOverrides{NewName: "X"}).explicit(a, 3); ok {
		t.Error("newName must not count as explicit for multi-asset batches")
	}
	if name, ok := (NameOverrides{NewName: "X"}).explicit(a, 1); !ok || name != "X" {
		t.Errorf("explicit = (%q, %v), want (X, true)", name, ok)
	}
	if _, ok := (NameOverrides{ByID: map[string]string{"3": ""}}).explicit(a, 1); ok {
		t.Error("empty override value must not count as explicit")
	}
}
