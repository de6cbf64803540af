package clone

import (
	"fmt"

	"github.com/loyaltyops/promo-migrator/internal/models"
)

// The remaining asset kinds are symmetric leaf clones: fetch the source
// object, drop server-assigned fields, inject the resolved name, create.

func (c *Cloner) cloneGiveawayPool(a models.AssetRef) error {
	var pool models.Resource
	if err := c.src.GetJSON("/v1/giveaways/pools/"+a.ID, nil, &pool); err != nil {
		return err
	}

	payload := pick(pool, "description", "attributes", "sandbox")
	payload["name"] = c.resolveName(a, resourceName(pool))

	created, err := createObject(c.dst, "/v1/giveaways/pools", payload)
	if err != nil {
		return err
	}
	c.logf(fmt.Sprintf("  giveaway pool created (ID %s)", resourceID(created)))
	return nil
}

func (c *Cloner) cloneCampaignTemplate(a models.AssetRef) error {
	var tpl models.Resource
	if err := c.src.GetJSON("/v1/campaign_templates/"+a.ID, nil, &tpl); err != nil {
		return err
	}

	payload := pick(tpl,
		"description", "instructions", "campaignAttributes", "couponAttributes",
		"state", "tags", "features", "couponSettings", "referralSettings",
		"limits", "templateParams", "campaignType",
	)
	payload["name"] = c.resolveName(a, resourceName(tpl))

	created, err := createObject(c.dst, "/v1/campaign_templates", payload)
	if err != nil {
		return err
	}
	c.logf(fmt.Sprintf("  campaign template created (ID %s)", resourceID(created)))
	return nil
}

func (c *Cloner) cloneAudience(a models.AssetRef) error {
	var aud models.Resource
	if err := c.src.GetJSON("/v1/audiences/"+a.ID, nil, &aud); err != nil {
		return err
	}

	payload := pick(aud, "sandbox", "description")
	payload["name"] = c.resolveName(a, resourceName(aud))

	created, err := createObject(c.dst, "/v1/audiences", payload)
	if err != nil {
		return err
	}
	c.logf(fmt.Sprintf("  audience created (ID %s)", resourceID(created)))
	return nil
}

func (c *Cloner) cloneContentType(a models.AssetRef) error {
	var ct models.Resource
	if err := c.src.GetJSON("/api/content_types/"+a.ID, nil, &ct); err != nil {
		return err
	}

	payload := pick(ct, "displayField", "description", "fields")
	payload["name"] = c.resolveName(a, resourceName(ct))

	created, err := createObject(c.dst, "/api/content_types", payload)
	if err != nil {
		return err
	}
	c.logf(fmt.Sprintf("  content type created (ID %s)", resourceID(created)))
	return nil
}
