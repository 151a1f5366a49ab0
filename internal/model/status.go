package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusComplete PaymentStatus = "complete"
	PaymentStatusFailed   PaymentStatus = "failed"
)

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch status := PaymentStatus(strings.ToLower(s)); status {
	case PaymentStatusPending, PaymentStatusComplete, PaymentStatusFailed:
		return status, nil
	}
	return "", fmt.Errorf("unknown payment status %q", s)
}

// CanTransitionTo reports whether a payment may move from s to next. Only a
// pending payment can settle, and a settled one never changes again.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	return s == PaymentStatusPending &&
		(next == PaymentStatusComplete || next == PaymentStatusFailed)
}

type Membership string

const (
	MembershipAffiliate   Membership = "affiliate"
	MembershipBronze      Membership = "bronze"
	MembershipSilver      Membership = "silver"
	MembershipGold        Membership = "gold"
	MembershipClassicGold Membership = "classic_gold"
)

// ParseMembership accepts the tier name; empty means the default tier.
func ParseMembership(s string) (Membership, error) {
	if s == "" {
		return MembershipBronze, nil
	}
	switch m := Membership(strings.ToLower(s)); m {
	case MembershipAffiliate, MembershipBronze, MembershipSilver, MembershipGold, MembershipClassicGold:
		return m, nil
	}
	return "", fmt.Errorf("unknown membership %q", s)
}

var hundred = decimal.NewFromInt(100)

// MinorUnits converts an amount in major currency units to the integer count
// of minor units (kobo) the gateway expects. Fractions of a minor unit are
// truncated.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).IntPart()
}

// PaymentReference is the gateway reference for an order.
func PaymentReference(orderID uint) string {
	return fmt.Sprintf("ORDER_%d", orderID)
}
