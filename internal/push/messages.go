package push

import (
	"fmt"
	"strings"
)

// ShortID: 8 karakter pertama uuid, uppercase - id pendek yang dilihat
// user di UI dan di notifikasi.
func ShortID(orderID string) string {
	if len(orderID) > 8 {
		orderID = orderID[:8]
	}
	return strings.ToUpper(orderID)
}

func NewOrderMessage(orderID, customerName string) Message {
	return Message{
		Title: "New Order Received! ☕",
		Body:  fmt.Sprintf("Order #%s from %s", ShortID(orderID), customerName),
		Link:  "/profile",
	}
}

func TestMessage() Message {
	return Message{
		Title: "Test Notification 🔔",
		Body:  "This is a test message to validate your settings.",
		Link:  "/profile",
	}
}
