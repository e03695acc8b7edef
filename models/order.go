package models

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type OrderSide string

const (
	Buy  OrderSide = "buy"
	Sell OrderSide = "sell"
)

type OrderType string

const (
	Limit  OrderType = "limit"
	MarketOrder OrderType = "market"
)

// OrderStatus is the closed set of order lifecycle states.
type OrderStatus string

const (
	StatusOpen               OrderStatus = "open"
	StatusPartiallyFilled    OrderStatus = "partially-filled"
	StatusFilled             OrderStatus = "filled"
	StatusClosed             OrderStatus = "closed"
	StatusCanceled           OrderStatus = "canceled"
	StatusRejected           OrderStatus = "rejected"
	StatusReduceOnlyCanceled OrderStatus = "reduceOnlyCanceled"
)

// OrderStatusOf maps a vendor status string onto the closed status set.
func OrderStatusOf(s string) (OrderStatus, error) {
	switch strings.ToLower(s) {
	case "open", "new":
		return StatusOpen, nil
	case "partially-filled", "partially_filled", "partiallyfilled":
		return StatusPartiallyFilled, nil
	case "filled":
		return StatusFilled, nil
	case "closed":
		return StatusClosed, nil
	case "canceled", "cancelled":
		return StatusCanceled, nil
	case "rejected":
		return StatusRejected, nil
	case "reduceonlycanceled", "reduce_only_canceled":
		return StatusReduceOnlyCanceled, nil
	}
	return "", errors.Errorf("unknown order status %s", s)
}

// Order is a read-only snapshot of a remote order. Remaining is always
// Amount - Filled computed with decimal arithmetic.
type Order struct {
	ExchangeOrderID string
	Symbol          string
	Side            OrderSide
	Type            OrderType
	Status          OrderStatus
	Price           decimal.Decimal
	TriggerPrice    decimal.Decimal
	Amount          decimal.Decimal
	Filled          decimal.Decimal
	Remaining       decimal.Decimal
	Timestamp       int64
	Info            map[string]interface{}
}
