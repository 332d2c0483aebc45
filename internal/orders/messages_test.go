package orders

import (
	"testing"

	"github.com/angelmondragon/tradelink-backend/pkg/enums"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatOrderAlert(t *testing.T) {
	got := FormatOrderAlert("Ravi Kumar", "ORD-20260301-ABCD1234", decimal.RequireFromString("200"), 1, enums.DeliveryModeDelivery)
	want := "🛒 New order from Ravi Kumar\n" +
		"Order: ORD-20260301-ABCD1234\n" +
		"Amount: ₹200.00\n" +
		"Items: 1 products\n" +
		"Delivery Mode: Delivery\n" +
		"\n" +
		"Please acknowledge:\n" +
		"1️⃣ Accept\n" +
		"2️⃣ Reject"
	assert.Equal(t, want, got)
}

func TestFormatStatusUpdate(t *testing.T) {
	cases := []struct {
		status enums.OrderStatus
		emoji  string
		line   string
	}{
		{enums.OrderStatusAccepted, "✅", "Your order has been accepted! ✅"},
		{enums.OrderStatusPacked, "📦", "Your order is packed and ready! 📦"},
		{enums.OrderStatusDispatched, "🚚", "Your order is on the way! 🚚"},
		{enums.OrderStatusDelivered, "🎉", "Your order has been delivered! 🎉"},
		{enums.OrderStatusRejected, "❌", "Your order has been rejected. Please contact us."},
	}
	for _, tc := range cases {
		t.Run(tc.status.String(), func(t *testing.T) {
			got := FormatStatusUpdate("ORD-20260301-ABCD1234", tc.status)
			want := tc.emoji + " Order Status Update\nOrder: ORD-20260301-ABCD1234\nStatus: " +
				titleCase(tc.status.String()) + "\n\n" + tc.line
			assert.Equal(t, want, got)
		})
	}
}

func TestFormatStatusUpdatePendingHasNoTrailer(t *testing.T) {
	got := FormatStatusUpdate("ORD-20260301-ABCD1234", enums.OrderStatusPending)
	assert.Equal(t, "📋 Order Status Update\nOrder: ORD-20260301-ABCD1234\nStatus: Pending\n", got)
}

func TestFormatDeliveryUpdate(t *testing.T) {
	assert.Equal(t,
		"🏬 Delivery Mode Updated\nOrder: ORD-1\nMode: Pickup\n\nPlease pick up your order from our location.",
		FormatDeliveryUpdate("ORD-1", enums.DeliveryModePickup))
	assert.Equal(t,
		"🚚 Delivery Mode Updated\nOrder: ORD-1\nMode: Delivery\n\nWe will deliver your order to your address.",
		FormatDeliveryUpdate("ORD-1", enums.DeliveryModeDelivery))
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Out For Delivery", titleCase("out_for_delivery"))
	assert.Equal(t, "Pickup", titleCase("PICKUP"))
	assert.Equal(t, "", titleCase(""))
}
