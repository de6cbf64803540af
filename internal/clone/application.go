package clone

import (
	"fmt"

	"github.com/loyaltyops/promo-migrator/internal/models"
)

// cloneApplication recreates an application with its campaigns, rulesets,
// coupon/referral codes, and (optionally) attribute schema. Campaigns are
// cloned strictly before attributes; within a campaign the ruleset is created
// before being wired as active — the remote API has no atomic
// create-with-active-ruleset call.
func (c *Cloner) cloneApplication(a models.AssetRef) error {
	var app models.Resource
	if err := c.src.GetJSON("/v1/applications/"+a.ID, nil, &app); err != nil {
		return err
	}

	payload := pick(app,
		"description", "timezone", "currency", "caseSensitivity", "attributes",
		"limits", "defaultDiscountScope", "enableCascadingDiscounts",
		"enableFlattenedCartItems", "attributesSettings", "sandbox",
		"enablePartialDiscounts", "defaultDiscountAdditionalCostPerItemScope",
	)
	// The additional-cost scope setting is only valid when cascading discounts
	// are on; sending it to an instance with the flag off trips validation.
	if !boolField(app, "enableCascadingDiscounts") {
		delete(payload, "defaultDiscountAdditionalCostPerItemScope")
	}
	payload["name"] = c.resolveName(a, resourceName(app))

	created, err := createObject(c.dst, "/v1/applications", payload)
	if err != nil {
		return err
	}
	destAppID := resourceID(created)
	c.logf(fmt.Sprintf("  application created (ID %s)", destAppID))

	campaigns, err := c.src.GetAll("/v1/applications/"+a.ID+"/campaigns", c.settings.CodePageSize)
	if err != nil {
		c.logf(fmt.Sprintf("  WARNING: listing campaigns: %v", err))
		campaigns = nil
	}
	for _, camp := range campaigns {
		if err := c.cloneCampaign(a.ID, destAppID, camp); err != nil {
			c.logf(fmt.Sprintf("  FAIL campaign %s: %v", resourceName(camp), err))
			continue
		}
	}

	if c.copySchema {
		if err := c.copyAttributes(a.ID, destAppID); err != nil {
			c.logf(fmt.Sprintf("  WARNING: attribute copy: %v", err))
		}
	}
	return nil
}

// cloneCampaign recreates one campaign under the destination application.
// Ruleset and code sub-steps are best-effort: their failures are logged and
// leave the campaign in place.
func (c *Cloner) cloneCampaign(srcAppID, destAppID string, camp models.Resource) error {
	srcCampID := resourceID(camp)

	payload := pick(camp,
		"name", "description", "startTime", "endTime", "attributes", "state",
		"tags", "features", "couponSettings", "referralSettings", "limits",
	)

	created, err := createObject(c.dst, "/v1/applications/"+destAppID+"/campaigns", payload)
	if err != nil {
		return err
	}
	destCampID := resourceID(created)
	c.logf(fmt.Sprintf("  campaign %q created (ID %s)", resourceName(camp), destCampID))

	if rulesetID := intField(camp, "activeRulesetId"); rulesetID != 0 {
		if err := c.cloneRuleset(srcAppID, srcCampID, destAppID, destCampID, rulesetID, payload); err != nil {
			c.logf(fmt.Sprintf("    WARNING: ruleset: %v", err))
		}
	}

	features := stringsField(camp, "features")
	for _, f := range features {
		switch f {
		case "coupons":
			if err := c.cloneCoupons(srcAppID, srcCampID, destAppID, destCampID); err != nil {
				c.logf(fmt.Sprintf("    WARNING: coupons: %v", err))
			}
		case "referrals":
			if err := c.cloneReferrals(srcAppID, srcCampID, destAppID, destCampID); err != nil {
				c.logf(fmt.Sprintf("    WARNING: referrals: %v", err))
			}
		}
	}
	return nil
}

// cloneRuleset copies a campaign's active ruleset and activates it on the
// destination campaign. Activation is a separate update call and only happens
// after the ruleset create has returned an ID.
func (c *Cloner) cloneRuleset(srcAppID, srcCampID, destAppID, destCampID string, rulesetID int, campPayload models.Resource) error {
	var ruleset models.Resource
	path := fmt.Sprintf("/v1/applications/%s/campaigns/%s/rulesets/%d", srcAppID, srcCampID, rulesetID)
	if err := c.src.GetJSON(path, nil, &ruleset); err != nil {
		return err
	}

	rsPayload := pick(ruleset, "rules", "bindings", "strikethroughRules")
	created, err := createObject(c.dst,
		fmt.Sprintf("/v1/applications/%s/campaigns/%s/rulesets", destAppID, destCampID), rsPayload)
	if err != nil {
		return err
	}

	update := pick(campPayload, "name", "description", "startTime", "endTime", "attributes", "state",
		"tags", "features", "couponSettings", "referralSettings", "limits")
	update["activeRulesetId"] = toInt(created["id"])
	if _, err := c.dst.Put(fmt.Sprintf("/v1/applications/%s/campaigns/%s", destAppID, destCampID), update); err != nil {
		return err
	}
	c.logf(fmt.Sprintf("    ruleset created and activated (ID %s)", resourceID(created)))
	return nil
}
