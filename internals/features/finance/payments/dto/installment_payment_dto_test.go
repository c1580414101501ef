package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"

	model "sekolahku_backend/internals/features/finance/payments/model"
)

func TestMidtransNotification_Settled(t *testing.T) {
	cases := []struct {
		name   string
		status string
		fraud  string
		want   bool
	}{
		{"settlement", "settlement", "", true},
		{"capture accepted", "capture", "accept", true},
		{"capture challenged", "capture", "challenge", false},
		{"capture denied", "capture", "deny", false},
		{"pending", "pending", "", false},
		{"expire", "expire", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n := MidtransNotificationRequest{
				OrderID:           "INST-x",
				TransactionStatus: tc.status,
				FraudStatus:       tc.fraud,
			}
			assert.Equal(t, tc.want, n.Settled())
		})
	}
}

func TestMidtransNotification_Terminal(t *testing.T) {
	cases := []struct {
		status     string
		wantStatus string
		wantDone   bool
	}{
		{"deny", model.InstallmentPaymentStatusFailed, true},
		{"failure", model.InstallmentPaymentStatusFailed, true},
		{"expire", model.InstallmentPaymentStatusExpired, true},
		{"cancel", model.InstallmentPaymentStatusCanceled, true},
		{"settlement", "", false},
		{"pending", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.status, func(t *testing.T) {
			n := MidtransNotificationRequest{OrderID: "INST-x", TransactionStatus: tc.status}
			got, done := n.Terminal()
			assert.Equal(t, tc.wantDone, done)
			assert.Equal(t, tc.wantStatus, got)
		})
	}
}
