package models

// PaymentMethod stores only the displayable remnants of a card: brand,
// last four digits and expiry. The PAN and CVV never reach the database.
type PaymentMethod struct {
	Model
	UserID         uint   `gorm:"index;not null" json:"user_id"`
	Type           string `json:"type"` // credit_card or paypal
	CardholderName string `json:"cardholder_name,omitempty"`
	Brand          string `json:"brand,omitempty"`
	Last4          string `json:"last4,omitempty"`
	ExpiryMonth    string `json:"expiry_month,omitempty"`
	ExpiryYear     string `json:"expiry_year,omitempty"`
	Email          string `json:"email,omitempty"` // paypal account
	IsDefault      bool   `json:"is_default"`
}

type AddCardRequest struct {
	CardNumber     string `json:"card_number" binding:"required" conform:"trim"`
	CardholderName string `json:"cardholder_name" binding:"required" conform:"trim"`
	ExpiryMonth    string `json:"expiry_month" binding:"required"`
	ExpiryYear     string `json:"expiry_year" binding:"required"`
	CVV            string `json:"cvv" binding:"required"`
}

// CardValidationErrors maps field name to the inline message shown next to it.
type CardValidationErrors map[string]string
