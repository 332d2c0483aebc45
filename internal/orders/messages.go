package orders

import (
	"fmt"
	"strings"

	"github.com/angelmondragon/tradelink-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// FormatOrderAlert renders the message a distributor receives for a new order.
func FormatOrderAlert(retailerName, orderNumber string, total decimal.Decimal, itemCount int, mode enums.DeliveryMode) string {
	return fmt.Sprintf(
		"🛒 New order from %s\nOrder: %s\nAmount: ₹%s\nItems: %d products\nDelivery Mode: %s\n\nPlease acknowledge:\n1️⃣ Accept\n2️⃣ Reject",
		retailerName,
		orderNumber,
		total.StringFixed(2),
		itemCount,
		titleCase(mode.String()),
	)
}

// FormatStatusUpdate renders the message a retailer receives when status changes.
func FormatStatusUpdate(orderNumber string, status enums.OrderStatus) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s Order Status Update\nOrder: %s\nStatus: %s\n", statusEmoji(status), orderNumber, titleCase(status.String()))
	if line := statusLine(status); line != "" {
		b.WriteString("\n")
		b.WriteString(line)
	}
	return b.String()
}

// FormatDeliveryUpdate renders the message a retailer receives when the delivery mode changes.
func FormatDeliveryUpdate(orderNumber string, mode enums.DeliveryMode) string {
	emoji := "🚚"
	line := "We will deliver your order to your address."
	if mode == enums.DeliveryModePickup {
		emoji = "🏬"
		line = "Please pick up your order from our location."
	}
	return fmt.Sprintf("%s Delivery Mode Updated\nOrder: %s\nMode: %s\n\n%s", emoji, orderNumber, titleCase(mode.String()), line)
}

func statusEmoji(status enums.OrderStatus) string {
	switch status {
	case enums.OrderStatusAccepted:
		return "✅"
	case enums.OrderStatusPacked:
		return "📦"
	case enums.OrderStatusDispatched:
		return "🚚"
	case enums.OrderStatusDelivered:
		return "🎉"
	case enums.OrderStatusRejected:
		return "❌"
	default:
		return "📋"
	}
}

func statusLine(status enums.OrderStatus) string {
	switch status {
	case enums.OrderStatusDelivered:
		return "Your order has been delivered! 🎉"
	case enums.OrderStatusDispatched:
		return "Your order is on the way! 🚚"
	case enums.OrderStatusPacked:
		return "Your order is packed and ready! 📦"
	case enums.OrderStatusAccepted:
		return "Your order has been accepted! ✅"
	case enums.OrderStatusRejected:
		return "Your order has been rejected. Please contact us."
	default:
		return ""
	}
}

// titleCase upper-cases the first letter of each underscore or space separated word.
func titleCase(value string) string {
	words := strings.FieldsFunc(value, func(r rune) bool { return r == '_' || r == ' ' })
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
