package models

import (
	"math"
	"time"
)

type OrderStatus string

const (
	OrderStatusWaitingPayment OrderStatus = "waiting_payment"
	OrderStatusPaid           OrderStatus = "paid"
)

// GatewayFeeRate is the processor fee share deducted from the order total
// when reporting commission to the tracking API.
const GatewayFeeRate = 0.0674

type OrderCustomer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// OrderProduct is a snapshot of one purchased line at purchase time.
type OrderProduct struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	PriceInCents int64  `json:"priceInCents"`
	Quantity     int64  `json:"quantity"`
}

type Commission struct {
	TotalPriceInCents     int64 `json:"totalPriceInCents"`
	GatewayFeeInCents     int64 `json:"gatewayFeeInCents"`
	UserCommissionInCents int64 `json:"userCommissionInCents"`
}

// NewCommission splits an order total into fee and net. The net is the
// remainder after the rounded fee, so the parts always sum to the total.
func NewCommission(totalCents int64) Commission {
	fee := int64(math.Round(float64(totalCents) * GatewayFeeRate))
	return Commission{
		TotalPriceInCents:     totalCents,
		GatewayFeeInCents:     fee,
		UserCommissionInCents: totalCents - fee,
	}
}

// OrderRecord is the write-only payload submitted to the order-tracking API.
type OrderRecord struct {
	OrderID        string            `json:"orderId"`
	Platform       string            `json:"platform"`
	PaymentMethod  string            `json:"paymentMethod"`
	Status         OrderStatus       `json:"status"`
	CreatedAt      time.Time         `json:"createdAt"`
	Customer       OrderCustomer     `json:"customer"`
	Products       []OrderProduct    `json:"products"`
	TrackingParams map[string]string `json:"trackingParameters"`
	Commission     Commission        `json:"commission"`
}
