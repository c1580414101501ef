// file: internals/features/notifications/service/whatsapp_sender.go
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
)

// ErrNotConfigured: kredensial provider belum di-set untuk tenant ini.
var ErrNotConfigured = errors.New("whatsapp provider is not configured")

type SendResult struct {
	Sent     bool
	Response []byte // body mentah dari provider, disimpan ke notification_logs
}

// WhatsAppSender mengirim pesan lewat HTTP API provider WA.
type WhatsAppSender struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

func NewWhatsAppSender(baseURL, token string) *WhatsAppSender {
	return &WhatsAppSender{
		BaseURL: baseURL,
		Token:   token,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *WhatsAppSender) Configured() bool {
	return s != nil && s.BaseURL != "" && s.Token != ""
}

func (s *WhatsAppSender) Send(ctx context.Context, phone, message string) (SendResult, error) {
	if !s.Configured() {
		return SendResult{}, ErrNotConfigured
	}

	payload, err := sonic.Marshal(map[string]string{
		"phone":   phone,
		"message": message,
	})
	if err != nil {
		return SendResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+"/messages", bytes.NewReader(payload))
	if err != nil {
		return SendResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.Token)

	resp, err := s.Client.Do(req)
	if err != nil {
		return SendResult{Sent: false, Response: []byte(fmt.Sprintf(`{"error":%q}`, err.Error()))}, nil
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	return SendResult{
		Sent:     resp.StatusCode >= 200 && resp.StatusCode < 300,
		Response: body,
	}, nil
}

// ReminderMessage menyusun teks pengingat jatuh tempo.
func ReminderMessage(studentName, planName string, number int, amount string, due time.Time) string {
	return fmt.Sprintf(
		"Halo, tagihan %s cicilan ke-%d a.n. %s sebesar Rp %s jatuh tempo pada %s. Mohon segera melakukan pembayaran.",
		planName, number, studentName, amount, due.Format("02-01-2006"),
	)
}
