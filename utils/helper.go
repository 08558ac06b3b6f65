package utils

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StringToUUIDPtr converts a string to UUID pointer
func StringToUUIDPtr(s string) *uuid.UUID {
	if s == "" {
		return nil
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &u
}

// StringPtr returns a pointer to the string value
func StringPtr(s string) *string {
	return &s
}

// FormatQuotationNumber formats a sequence number into a quotation number
func FormatQuotationNumber(sequence int64) string {
	year := time.Now().Year()
	return fmt.Sprintf("QT-%d-%05d", year, sequence)
}

// FormatOrderNumber formats a sequence number into a rental order number
func FormatOrderNumber(sequence int64) string {
	year := time.Now().Year()
	return fmt.Sprintf("RO-%d-%05d", year, sequence)
}

// FormatInvoiceNumber formats a sequence number into an invoice number
func FormatInvoiceNumber(sequence int64) string {
	year := time.Now().Year()
	return fmt.Sprintf("INV-%d-%05d", year, sequence)
}

// FormatPaymentNumber formats a sequence number into a payment number
func FormatPaymentNumber(sequence int64) string {
	year := time.Now().Year()
	return fmt.Sprintf("PAY-%d-%05d", year, sequence)
}
