// file: internals/features/finance/payments/service/midtrans.go
package service

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"

	"sekolahku_backend/internals/features/finance/payments/model"
)

/* =========================================================
   Midtrans Client
========================================================= */

var (
	SnapClient snap.Client
	serverKey  string
)

// InitMidtrans harus dipanggil saat bootstrap app.
// useProduction=true untuk Production, false untuk Sandbox.
func InitMidtrans(key string, useProduction bool) {
	serverKey = key
	if useProduction {
		SnapClient.New(key, midtrans.Production)
	} else {
		SnapClient.New(key, midtrans.Sandbox)
	}
}

// VerifySignature mencocokkan signature_key dari HTTP notification Midtrans:
// sha512(order_id + status_code + gross_amount + server_key). Endpoint callback
// tidak memakai JWT, jadi ini satu-satunya autentikasi webhook.
func VerifySignature(orderID, statusCode, grossAmount, signature string) bool {
	if serverKey == "" || signature == "" {
		return false
	}
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	want := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(want), []byte(signature)) == 1
}

/* =========================================================
   Input helper untuk data customer
========================================================= */

type CustomerInput struct {
	Name  string
	Email string
	Phone string
}

/* =========================================================
   Generate Snap Token
========================================================= */

func GenerateSnapToken(p model.InstallmentPayment, itemName string, cust CustomerInput) (string, string, error) {
	if !p.InstallmentPaymentAmount.IsPositive() {
		return "", "", errors.New("invalid installment_payment_amount")
	}
	if p.InstallmentPaymentExternalID == nil || *p.InstallmentPaymentExternalID == "" {
		return "", "", errors.New("installment_payment_external_id is required (used as OrderID)")
	}

	// Midtrans menerima nominal IDR bulat
	gross := p.InstallmentPaymentAmount.Round(0).IntPart()

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  *p.InstallmentPaymentExternalID,
			GrossAmt: gross,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: cust.Name,
			Email: cust.Email,
			Phone: cust.Phone,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:       *p.InstallmentPaymentExternalID,
				Price:    gross,
				Qty:      1,
				Name:     truncate(itemName, 50),
				Category: "installment",
			},
		},
	}

	resp, err := SnapClient.CreateTransaction(req)
	if err != nil {
		return "", "", err
	}
	return resp.Token, resp.RedirectURL, nil
}

/* =========================================================
   Utils
========================================================= */

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}
