package clone

import (
	"fmt"
	"strconv"
)

// copyAttributes recreates the source application's custom attribute
// definitions against the destination application. Same-instance clones are
// an explicit no-op — recreating a definition onto itself collides on the
// remote uniqueness constraint. Per-attribute failures are logged and
// skipped; attributes are a best-effort enhancement, never a hard dependency
// of the application clone.
func (c *Cloner) copyAttributes(srcAppID, destAppID string) error {
	if c.sameEnv {
		return nil
	}

	attrs, err := c.src.GetAll("/v1/applications/"+srcAppID+"/attributes", c.settings.CodePageSize)
	if err != nil {
		return err
	}
	if len(attrs) == 0 {
		return nil
	}

	destID, err := strconv.Atoi(destAppID)
	if err != nil {
		return fmt.Errorf("destination application id %q is not numeric", destAppID)
	}

	copied := 0
	for _, attr := range attrs {
		payload := pick(attr,
			"entity", "eventType", "name", "title", "type", "description",
			"suggestions", "editable", "hasAllowedList",
		)
		payload["applicationId"] = destID
		if _, err := c.dst.Post("/v1/attributes", payload); err != nil {
			c.logf(fmt.Sprintf("  WARNING: attribute %s: %v", stringField(attr, "name"), err))
			continue
		}
		copied++
	}
	c.logf(fmt.Sprintf("  copied %d of %d attributes", copied, len(attrs)))
	return nil
}
