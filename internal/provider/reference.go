package provider

import "strings"

const (
	// The gateway rejects order ids outside 4-20 characters.
	maxOrderReferenceLen = 20

	// referencePlaceholder marks where the generated number sits inside an
	// order number template, e.g. "INV-{0}".
	referencePlaceholder = "{0}"
)

// NormalizeOrderReference derives a gateway-legal order id from the
// business-visible order number. When the number is too long and the host
// decorates order numbers with a template, the known prefix/suffix
// decoration is stripped by character range. Content is never truncated:
// without decoration the number is returned as-is even when over the limit.
func NormalizeOrderReference(orderNumber, template string) (string, error) {
	if len(orderNumber) <= maxOrderReferenceLen {
		return orderNumber, nil
	}

	if template == "" || template == referencePlaceholder {
		return orderNumber, nil
	}

	idx := strings.Index(template, referencePlaceholder)
	if idx < 0 {
		return orderNumber, nil
	}

	prefix := template[:idx]
	suffix := template[idx+len(referencePlaceholder):]

	switch {
	case prefix == "":
		// Placeholder at the start: trim the suffix.
		end := len(orderNumber) - len(suffix)
		if end < 0 {
			return "", ErrInvalidTemplate
		}
		return orderNumber[:end], nil
	case suffix == "":
		// Placeholder at the end: trim the prefix.
		if len(prefix) > len(orderNumber) {
			return "", ErrInvalidTemplate
		}
		return orderNumber[len(prefix):], nil
	default:
		// Placeholder in the middle: trim both.
		end := len(orderNumber) - len(suffix)
		if end < len(prefix) {
			return "", ErrInvalidTemplate
		}
		return orderNumber[len(prefix):end], nil
	}
}
