package clone

import (
	"fmt"

	"github.com/loyaltyops/promo-migrator/internal/models"
)

// cloneLoyaltyProgram recreates a loyalty program, then copies its tiers as
// an unconditional second pass once the destination program exists. Tier
// failures are logged per tier and never fail the program clone.
func (c *Cloner) cloneLoyaltyProgram(a models.AssetRef) error {
	var prog models.Resource
	if err := c.src.GetJSON("/v1/loyalty_programs/"+a.ID, nil, &prog); err != nil {
		return err
	}

	payload := pick(prog,
		"title", "description", "defaultValidity", "defaultPending",
		"allowSubledger", "usersPerCardLimit", "sandbox", "programJoinPolicy",
		"tiersExpirationPolicy", "tiersExpireIn", "tiersDowngradePolicy",
		"cardCodeSettings",
	)
	// subscribedApplications reference source-side application ids; they
	// cannot carry over to another instance.
	payload["name"] = c.resolveName(a, resourceName(prog))

	created, err := createObject(c.dst, "/v1/loyalty_programs", payload)
	if err != nil {
		return err
	}
	destID := resourceID(created)
	c.logf(fmt.Sprintf("  loyalty program created (ID %s)", destID))

	tiers, err := c.src.GetAll("/v1/loyalty_programs/"+a.ID+"/tiers", c.settings.CodePageSize)
	if err != nil {
		c.logf(fmt.Sprintf("  WARNING: listing tiers: %v", err))
		return nil
	}
	for _, tier := range tiers {
		tierPayload := pick(tier, "name", "minPoints")
		if _, err := c.dst.Post("/v1/loyalty_programs/"+destID+"/tiers", tierPayload); err != nil {
			c.logf(fmt.Sprintf("  WARNING: tier %s: %v", resourceName(tier), err))
			continue
		}
	}
	if len(tiers) > 0 {
		c.logf(fmt.Sprintf("  copied %d tiers", len(tiers)))
	}
	return nil
}
