package pos

import (
	"regexp"
	"strings"

	"delivery-scheduler/internal/domain"
)

var deliveryLabels = []string{"shipping and handling", "delivery", "shipping fee"}

var crossReferencePattern = regexp.MustCompile(`Shopify Order ID: (\d+)-SkuIQ Order #\d+`)

// IsDeliveryItem reports whether a line item name is a shipping/delivery charge.
func IsDeliveryItem(name string) bool {
	name = strings.ToLower(name)
	for _, l := range deliveryLabels {
		if strings.Contains(name, l) {
			return true
		}
	}
	return false
}

// Classify returns the delivery type of an order, or false when no line item
// is a delivery charge.
func Classify(o Order) (domain.DeliveryType, bool) {
	for _, it := range o.Items() {
		if IsDeliveryItem(it.Name) {
			return domain.DeliveryTypeForPrice(it.Price), true
		}
	}
	return 0, false
}

// ExtractCrossReference returns the storefront order name embedded in the
// order title by the storefront sync app.
func ExtractCrossReference(o Order) (string, bool) {
	m := crossReferencePattern.FindStringSubmatch(o.Title)
	if m == nil {
		return "", false
	}
	return m[1], true
}
