package clone

import (
	"fmt"
	"time"

	"github.com/loyaltyops/promo-migrator/internal/models"
	"github.com/loyaltyops/promo-migrator/internal/remote"
)

// Settings carries the tunable clone constants. Tests override the poll knobs
// with near-zero values.
type Settings struct {
	CallTimeout      time.Duration
	CodePollAttempts int
	CodePollDelay    time.Duration
	CodePageSize     int
}

// Batch is one validated migration request.
type Batch struct {
	Source     *models.Environment
	Dest       *models.Environment
	Assets     []models.AssetRef
	Overrides  NameOverrides
	CopySchema bool
}

// SameEnvironment reports whether the batch clones within one instance.
func (b Batch) SameEnvironment() bool {
	return b.Source.ID == b.Dest.ID
}

// ValidateBatch enforces every rule that must hold before any remote call:
// known asset kinds, matching platform kinds, and — for same-instance clones —
// an explicit name for every asset. The destination enforces name uniqueness,
// so the "(Copy)" fallback cannot be trusted when source and destination are
// the same instance; any unnamed asset rejects the whole batch up front.
func ValidateBatch(b Batch) error {
	if len(b.Assets) == 0 {
		return &ValidationError{Message: "assets must be a non-empty array"}
	}
	if b.Source.Kind != b.Dest.Kind {
		return &ValidationError{Message: fmt.Sprintf(
			"source environment is %s but destination is %s", b.Source.Kind, b.Dest.Kind)}
	}
	for _, a := range b.Assets {
		if !a.Kind.Valid() {
			return &ValidationError{Message: fmt.Sprintf("unknown asset kind %q", a.Kind)}
		}
		if a.Kind.PlatformFor() != b.Source.Kind {
			return &ValidationError{Message: fmt.Sprintf(
				"asset kind %q does not exist on a %s environment", a.Kind, b.Source.Kind)}
		}
	}
	if b.SameEnvironment() {
		for _, a := range b.Assets {
			if _, ok := b.Overrides.explicit(a, len(b.Assets)); !ok {
				return &ValidationError{Message: fmt.Sprintf(
					"same-instance clone requires an explicit name for %s", a)}
			}
		}
	}
	return nil
}

// Cloner walks each requested asset's dependency subtree on the source and
// recreates it on the destination. One cloner processes one batch,
// sequentially; the remote APIs are rate-limited and order-sensitive, so
// there is no parallelism within a batch.
type Cloner struct {
	src        *remote.Client
	dst        *remote.Client
	sameEnv    bool
	copySchema bool
	overrides  NameOverrides
	assetCount int
	settings   Settings
	logf       func(string)
}

// NewCloner builds a Cloner for a validated batch.
func NewCloner(b Batch, settings Settings, logf func(string)) *Cloner {
	return &Cloner{
		src:        remote.NewClient(b.Source, settings.CallTimeout),
		dst:        remote.NewClient(b.Dest, settings.CallTimeout),
		sameEnv:    b.SameEnvironment(),
		copySchema: b.CopySchema,
		overrides:  b.Overrides,
		assetCount: len(b.Assets),
		settings:   settings,
		logf:       logf,
	}
}

// Run clones every requested asset in submission order. A failed asset never
// aborts its siblings; each gets its own result entry. Once an object exists
// on the destination it stays there even when a later step fails — there is
// no rollback.
func (c *Cloner) Run(assets []models.AssetRef) []models.AssetResult {
	results := make([]models.AssetResult, 0, len(assets))
	for _, a := range assets {
		c.logf(fmt.Sprintf("=== Cloning %s ===", a))
		res := models.AssetResult{Kind: a.Kind, ID: a.ID, Status: models.RunSuccess}
		if err := c.cloneAsset(a); err != nil {
			c.logf(fmt.Sprintf("  FAIL: %s: %v", a, err))
			res.Status = models.RunFailed
			res.Error = err.Error()
		}
		results = append(results, res)
	}
	return results
}

// cloneAsset dispatches on the closed set of asset kinds. ValidateBatch has
// already rejected unknown kinds, so the default branch only guards against
// a kind added to the enum without a clone path.
func (c *Cloner) cloneAsset(a models.AssetRef) error {
	switch a.Kind {
	case models.KindApplication:
		return c.cloneApplication(a)
	case models.KindCampaignTemplate:
		return c.cloneCampaignTemplate(a)
	case models.KindLoyaltyProgram:
		return c.cloneLoyaltyProgram(a)
	case models.KindGiveawayPool:
		return c.cloneGiveawayPool(a)
	case models.KindAudience:
		return c.cloneAudience(a)
	case models.KindContentType:
		return c.cloneContentType(a)
	default:
		return fmt.Errorf("no clone path for asset kind %q", a.Kind)
	}
}

// resolveName computes the destination name for an asset.
func (c *Cloner) resolveName(a models.AssetRef, sourceName string) string {
	return ResolveName(a, c.overrides, c.assetCount, sourceName)
}
