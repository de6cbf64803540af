package clone

import (
	"fmt"
	"strings"

	"github.com/cenkalti/backoff"
	"github.com/loyaltyops/promo-migrator/internal/models"
)

// Coupon and referral codes move in two phases: a bulk CSV import, then
// per-code property updates. The import endpoint is asynchronous on the
// remote side — codes are not queryable when the call returns — so the
// property phase waits behind a bounded constant-delay poll. Only the code
// value survives the import; limits, validity windows, and attributes are
// pushed one code at a time, matched by value, because the import returns no
// source-to-destination ID mapping.

func (c *Cloner) cloneCoupons(srcAppID, srcCampID, destAppID, destCampID string) error {
	srcPath := fmt.Sprintf("/v1/applications/%s/campaigns/%s/coupons/no_total", srcAppID, srcCampID)
	coupons, err := c.src.GetAll(srcPath, c.settings.CodePageSize)
	if err != nil {
		return err
	}
	if len(coupons) == 0 {
		return nil
	}

	csv := codeCSV("value", coupons, "value")
	importPath := fmt.Sprintf("/v1/applications/%s/campaigns/%s/import_coupons", destAppID, destCampID)
	if _, err := c.dst.Upload(importPath, "coupons.csv", []byte(csv)); err != nil {
		return err
	}
	c.logf(fmt.Sprintf("    imported %d coupon codes", len(coupons)))

	destPath := fmt.Sprintf("/v1/applications/%s/campaigns/%s/coupons/no_total", destAppID, destCampID)
	visible := c.waitForCodes(destPath, len(coupons))
	if len(visible) == 0 {
		c.logf("    WARNING: imported coupons not yet visible, skipping property updates")
		return nil
	}

	byValue := make(map[string]models.Resource, len(visible))
	for _, cp := range visible {
		byValue[stringField(cp, "value")] = cp
	}

	for _, src := range coupons {
		dest, ok := byValue[stringField(src, "value")]
		if !ok {
			continue
		}
		props := pick(src, "usageLimit", "discountLimit", "reservationLimit",
			"startDate", "expiryDate", "attributes", "recipientIntegrationId")
		if len(props) == 0 {
			continue
		}
		updatePath := fmt.Sprintf("/v1/applications/%s/campaigns/%s/coupons/%s",
			destAppID, destCampID, resourceID(dest))
		if _, err := c.dst.Put(updatePath, props); err != nil {
			c.logf(fmt.Sprintf("    WARNING: coupon %s properties: %v", stringField(src, "value"), err))
			continue
		}
	}
	return nil
}

func (c *Cloner) cloneReferrals(srcAppID, srcCampID, destAppID, destCampID string) error {
	srcPath := fmt.Sprintf("/v1/applications/%s/campaigns/%s/referrals", srcAppID, srcCampID)
	referrals, err := c.src.GetAll(srcPath, c.settings.CodePageSize)
	if err != nil {
		return err
	}
	if len(referrals) == 0 {
		return nil
	}

	csv := codeCSV("code", referrals, "code")
	importPath := fmt.Sprintf("/v1/applications/%s/campaigns/%s/import_referrals", destAppID, destCampID)
	if _, err := c.dst.Upload(importPath, "referrals.csv", []byte(csv)); err != nil {
		return err
	}
	c.logf(fmt.Sprintf("    imported %d referral codes", len(referrals)))

	destPath := fmt.Sprintf("/v1/applications/%s/campaigns/%s/referrals", destAppID, destCampID)
	visible := c.waitForCodes(destPath, len(referrals))
	if len(visible) == 0 {
		c.logf("    WARNING: imported referrals not yet visible, skipping property updates")
		return nil
	}

	byCode := make(map[string]models.Resource, len(visible))
	for _, rf := range visible {
		byCode[stringField(rf, "code")] = rf
	}

	for _, src := range referrals {
		dest, ok := byCode[stringField(src, "code")]
		if !ok {
			continue
		}
		props := pick(src, "usageLimit", "startDate", "expiryDate", "attributes",
			"advocateProfileIntegrationId")
		if len(props) == 0 {
			continue
		}
		updatePath := fmt.Sprintf("/v1/applications/%s/campaigns/%s/referrals/%s",
			destAppID, destCampID, resourceID(dest))
		if _, err := c.dst.Put(updatePath, props); err != nil {
			c.logf(fmt.Sprintf("    WARNING: referral %s properties: %v", stringField(src, "code"), err))
			continue
		}
	}
	return nil
}

// waitForCodes polls the destination code list until it reaches the source
// count or the retry budget runs out, with a constant inter-attempt delay.
// Constant rather than exponential: import completion time is typically short
// and the ceiling bounds worst-case latency, so predictable total wait beats
// adaptive backoff here. Budget exhaustion is not an error — the caller
// decides what a short count means.
func (c *Cloner) waitForCodes(path string, want int) []models.Resource {
	var visible []models.Resource
	attempt := func() error {
		list, err := c.dst.GetAll(path, c.settings.CodePageSize)
		if err != nil {
			return err
		}
		visible = list
		if len(list) < want {
			return fmt.Errorf("%d of %d codes visible", len(list), want)
		}
		return nil
	}
	policy := backoff.WithMaxRetries(
		backoff.NewConstantBackOff(c.settings.CodePollDelay),
		uint64(c.settings.CodePollAttempts-1),
	)
	_ = backoff.Retry(attempt, policy)
	return visible
}

// codeCSV builds the single-column import payload: header plus one row per code.
func codeCSV(header string, codes []models.Resource, field string) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteByte('\n')
	for _, code := range codes {
		b.WriteString(stringField(code, field))
		b.WriteByte('\n')
	}
	return b.String()
}
