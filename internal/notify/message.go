// Package notify tells the merchant about new orders: a prefilled chat link
// returned to the shopper and an optional event published to Kafka.
package notify

import (
	"fmt"
	"net/url"
	"strings"

	"storefront/internal/domain"
)

const chatBaseURL = "https://wa.me/"

// MessageURL builds a click-to-chat link for number with text prefilled.
// Everything but digits is stripped from number.
func MessageURL(number, text string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
	if text == "" {
		return chatBaseURL + digits
	}
	return chatBaseURL + digits + "?" + url.Values{"text": {text}}.Encode()
}

// OrderMessage renders the merchant-facing summary of o.
func OrderMessage(o domain.Order, currency string) string {
	var b strings.Builder
	b.WriteString("*New Order*")
	if o.ID != "" {
		fmt.Fprintf(&b, " #%s", shortID(o.ID))
	}
	b.WriteString("\n\n*Customer Information:*\n")
	fmt.Fprintf(&b, "Name: %s\n", o.CustomerName)
	fmt.Fprintf(&b, "Phone: %s\n", o.CustomerPhone)
	if o.CustomerEmail != "" {
		fmt.Fprintf(&b, "Email: %s\n", o.CustomerEmail)
	}
	if o.CustomerAddress != "" {
		fmt.Fprintf(&b, "Address: %s\n", o.CustomerAddress)
	}
	fmt.Fprintf(&b, "Payment: %s\n", strings.ReplaceAll(string(o.PaymentMethod), "_", " "))

	b.WriteString("\n*Order Details:*\n")
	for _, it := range o.Items {
		fmt.Fprintf(&b, "- %s - %s %s x%d\n", it.ProductName, it.UnitPrice.StringFixed(2), currency, it.Quantity)
	}
	fmt.Fprintf(&b, "\nSubtotal: %s %s\n", o.Subtotal.StringFixed(2), currency)
	fmt.Fprintf(&b, "Shipping: %s %s\n", o.ShippingCost.StringFixed(2), currency)
	fmt.Fprintf(&b, "*Total: %s %s*\n", o.TotalAmount.StringFixed(2), currency)
	if o.SpecialInstructions != "" {
		fmt.Fprintf(&b, "\n*Notes:* %s\n", o.SpecialInstructions)
	}
	b.WriteString("\nPlease confirm this order and provide delivery information.")
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
