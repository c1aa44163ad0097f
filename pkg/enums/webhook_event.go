package enums

import "fmt"

// WebhookEvent names the outbound events the dispatcher can emit.
type WebhookEvent string

const (
	WebhookEventOrderStatus WebhookEvent = "order_status"
	WebhookEventLowStock    WebhookEvent = "low_stock"
)

var validWebhookEvents = []WebhookEvent{
	WebhookEventOrderStatus,
	WebhookEventLowStock,
}

// String implements fmt.Stringer.
func (w WebhookEvent) String() string {
	return string(w)
}

// IsValid reports whether the value is a known WebhookEvent.
func (w WebhookEvent) IsValid() bool {
	for _, candidate := range validWebhookEvents {
		if candidate == w {
			return true
		}
	}
	return false
}

// ParseWebhookEvent converts raw input into a WebhookEvent.
func ParseWebhookEvent(value string) (WebhookEvent, error) {
	for _, candidate := range validWebhookEvents {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid webhook event %q", value)
}
