package payment

import (
	"testing"
	"time"
)

func TestLuhnCheck(t *testing.T) {
	tests := []struct {
		name   string
		number string
		want   bool
	}{
		{name: "valid visa", number: "4539148803436467", want: true},
		{name: "checksum off by one", number: "4539148803436468", want: false},
		{name: "valid amex", number: "378282246310005", want: true},
		{name: "valid mastercard", number: "5555555555554444", want: true},
		{name: "spaces allowed", number: "4539 1488 0343 6467", want: true},
		{name: "empty", number: "", want: false},
		{name: "letters", number: "4539abc803436467", want: false},
		{name: "single digit zero", number: "0", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LuhnCheck(tt.number); got != tt.want {
				t.Errorf("LuhnCheck(%q) = %v, want %v", tt.number, got, tt.want)
			}
		})
	}
}

func TestDetectBrand(t *testing.T) {
	tests := []struct {
		name   string
		number string
		want   Brand
	}{
		{name: "visa", number: "4539148803436467", want: BrandVisa},
		{name: "mastercard 51 prefix", number: "5105105105105100", want: BrandMastercard},
		{name: "mastercard 2-series", number: "2221000000000009", want: BrandMastercard},
		{name: "amex 37", number: "378282246310005", want: BrandAmex},
		{name: "amex 34", number: "340000000000009", want: BrandAmex},
		{name: "discover 6011", number: "6011111111111117", want: BrandDiscover},
		{name: "discover 65", number: "6500000000000002", want: BrandDiscover},
		{name: "unknown prefix", number: "1234567890123456", want: BrandUnknown},
		{name: "empty input", number: "", want: BrandUnknown},
		{name: "partial visa", number: "4", want: BrandVisa},
		{name: "non numeric", number: "abcd", want: BrandUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectBrand(tt.number); got != tt.want {
				t.Errorf("DetectBrand(%q) = %v, want %v", tt.number, got, tt.want)
			}
		})
	}
}

func TestIsValidCardNumber(t *testing.T) {
	tests := []struct {
		name   string
		number string
		want   bool
	}{
		{name: "valid visa 16", number: "4539148803436467", want: true},
		{name: "valid amex 15", number: "378282246310005", want: true},
		{name: "unknown brand passes luhn", number: "1234567890123452", want: false},
		{name: "visa wrong length", number: "45391488034364", want: false},
		{name: "visa bad checksum", number: "4539148803436468", want: false},
		{name: "empty", number: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidCardNumber(tt.number); got != tt.want {
				t.Errorf("IsValidCardNumber(%q) = %v, want %v", tt.number, got, tt.want)
			}
		})
	}
}

func TestIsValidExpiry(t *testing.T) {
	now := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		month string
		year  string
		want  bool
	}{
		{name: "current month still valid", month: "06", year: "24", want: true},
		{name: "previous month expired", month: "05", year: "24", want: false},
		{name: "next year", month: "01", year: "25", want: true},
		{name: "previous year", month: "12", year: "23", want: false},
		{name: "four digit year", month: "06", year: "2024", want: true},
		{name: "month zero", month: "00", year: "25", want: false},
		{name: "month thirteen", month: "13", year: "25", want: false},
		{name: "garbage month", month: "ab", year: "25", want: false},
		{name: "garbage year", month: "06", year: "xx", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidExpiry(tt.month, tt.year, now); got != tt.want {
				t.Errorf("IsValidExpiry(%q, %q) = %v, want %v", tt.month, tt.year, got, tt.want)
			}
		})
	}
}

func TestIsValidCVV(t *testing.T) {
	tests := []struct {
		name  string
		cvv   string
		brand Brand
		want  bool
	}{
		{name: "visa three digits", cvv: "123", brand: BrandVisa, want: true},
		{name: "visa four digits", cvv: "1234", brand: BrandVisa, want: false},
		{name: "amex four digits", cvv: "1234", brand: BrandAmex, want: true},
		{name: "amex three digits", cvv: "123", brand: BrandAmex, want: false},
		{name: "letters rejected", cvv: "12a", brand: BrandVisa, want: false},
		{name: "empty", cvv: "", brand: BrandVisa, want: false},
		{name: "unknown brand defaults to three", cvv: "123", brand: BrandUnknown, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidCVV(tt.cvv, tt.brand); got != tt.want {
				t.Errorf("IsValidCVV(%q, %v) = %v, want %v", tt.cvv, tt.brand, got, tt.want)
			}
		})
	}
}
