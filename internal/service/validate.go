package service

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/shopspring/decimal"

	"urbill/internal/domain"
)

const (
	maxNameLen        = 200
	maxPhoneLen       = 20
	maxEmailLen       = 255
	maxAddressLen     = 500
	maxDescriptionLen = 1000
	maxQuantity       = 10000
)

var maxRate = decimal.NewFromInt(100000000)

// validateClient collects every violation on the client block rather than
// stopping at the first one.
func validateClient(ve *domain.ValidationError, c domain.ClientBlock) {
	if strings.TrimSpace(c.ClientName) == "" {
		ve.Add("client_name", "client name is required")
	} else if len(c.ClientName) > maxNameLen {
		ve.Add("client_name", fmt.Sprintf("client name must be at most %d characters", maxNameLen))
	}
	if len(c.ClientBusinessName) > maxNameLen {
		ve.Add("client_business_name", fmt.Sprintf("client business name must be at most %d characters", maxNameLen))
	}
	if len(c.ClientPhone) > maxPhoneLen {
		ve.Add("client_phone", fmt.Sprintf("client phone must be at most %d characters", maxPhoneLen))
	}
	if c.ClientEmail != "" {
		if len(c.ClientEmail) > maxEmailLen {
			ve.Add("client_email", fmt.Sprintf("client email must be at most %d characters", maxEmailLen))
		} else if _, err := mail.ParseAddress(c.ClientEmail); err != nil {
			ve.Add("client_email", "client email is not a valid address")
		}
	}
	if len(c.ClientAddress) > maxAddressLen {
		ve.Add("client_address", fmt.Sprintf("client address must be at most %d characters", maxAddressLen))
	}
}

func validateItems(ve *domain.ValidationError, items []domain.LineItem) {
	if len(items) == 0 {
		ve.Add("items", "at least one line item is required")
		return
	}
	for i, item := range items {
		if strings.TrimSpace(item.ServiceName) == "" {
			ve.Add(fmt.Sprintf("items[%d].service_name", i), "service name is required")
		} else if len(item.ServiceName) > maxNameLen {
			ve.Add(fmt.Sprintf("items[%d].service_name", i), fmt.Sprintf("service name must be at most %d characters", maxNameLen))
		}
		if len(item.Description) > maxDescriptionLen {
			ve.Add(fmt.Sprintf("items[%d].description", i), fmt.Sprintf("description must be at most %d characters", maxDescriptionLen))
		}
		if item.Quantity <= 0 {
			ve.Add(fmt.Sprintf("items[%d].quantity", i), "quantity must be a positive integer")
		} else if item.Quantity > maxQuantity {
			ve.Add(fmt.Sprintf("items[%d].quantity", i), fmt.Sprintf("quantity must be at most %d", maxQuantity))
		}
		if item.Rate.IsNegative() {
			ve.Add(fmt.Sprintf("items[%d].rate", i), "rate must not be negative")
		} else if item.Rate.GreaterThan(maxRate) {
			ve.Add(fmt.Sprintf("items[%d].rate", i), "rate exceeds the maximum allowed value")
		}
	}
}

func validateDiscount(ve *domain.ValidationError, discountType domain.DiscountType, value decimal.Decimal) {
	if !discountType.Valid() {
		ve.Add("discount_type", "discount type must be percentage or fixed")
		return
	}
	if value.IsNegative() {
		ve.Add("discount_value", "discount value must not be negative")
		return
	}
	if discountType == domain.DiscountPercentage && value.GreaterThan(decimal.NewFromInt(100)) {
		ve.Add("discount_value", "percentage discount cannot exceed 100")
	}
}

func validateTaxRate(ve *domain.ValidationError, rate decimal.Decimal) {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		ve.Add("gst_percentage", "tax rate must be between 0 and 100")
	}
}
