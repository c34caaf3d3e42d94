package httpserver

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/smtp"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/strideshop/stride/internal/domain"
)

// sendOrderNotify pushes a new-order alert to the shop operators. Telegram
// first, email as backup when Telegram is down or unconfigured.
func (s *Server) sendOrderNotify(o *domain.Order) {
	if err := s.sendOrderTelegram(o); err != nil {
		log.Warn().Err(err).Uint("order_id", o.ID).Msg("telegram notify failed")
		if s.smtp.Host != "" {
			if err := s.sendOrderEmail(o); err != nil {
				log.Error().Err(err).Uint("order_id", o.ID).Msg("email notify failed")
			}
		}
	}
}

func (s *Server) orderSummary(o *domain.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order #%d [%s]\n", o.ID, o.Status)
	fmt.Fprintf(&b, "Payment: %s\n", o.PaymentMethod)
	fmt.Fprintf(&b, "Ship to: %s\n", o.ShippingAddress)
	fmt.Fprintf(&b, "Contact: %s\n", o.NotificationEmail)
	b.WriteString("Items:\n")
	for _, d := range o.Details {
		name := fmt.Sprintf("variant %d", d.ProductVariantID)
		if d.ProductVariant != nil {
			if d.ProductVariant.Product != nil {
				name = d.ProductVariant.Product.Name
			}
			if d.ProductVariant.Size != "" || d.ProductVariant.Color != "" {
				name += fmt.Sprintf(" (%s %s)", d.ProductVariant.Size, d.ProductVariant.Color)
			}
		}
		fmt.Fprintf(&b, "- %s x%d $%.2f\n", name, d.Quantity, d.UnitPrice)
	}
	fmt.Fprintf(&b, "Total: $%.2f\n", o.TotalAmount)
	return b.String()
}

func (s *Server) sendOrderEmail(o *domain.Order) error {
	if s.smtp.Host == "" || s.smtp.Port == "" || s.smtp.User == "" || s.smtp.Pass == "" {
		log.Warn().Msg("smtp not configured, skipping order email")
		return nil
	}
	to := s.smtp.NotifyEmail
	if to == "" {
		to = s.smtp.User
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Subject: New order #%d (%s)\r\n", o.ID, o.Status)
	fmt.Fprintf(&buf, "From: %s\r\n", s.smtp.User)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	buf.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	buf.WriteString(s.orderSummary(o))

	auth := smtp.PlainAuth("", s.smtp.User, s.smtp.Pass, s.smtp.Host)
	return smtp.SendMail(s.smtp.Host+":"+s.smtp.Port, auth, s.smtp.User, []string{to}, buf.Bytes())
}

func (s *Server) sendOrderTelegram(o *domain.Order) error {
	if s.telegram.BotToken == "" || strings.TrimSpace(s.telegram.ChatIDs) == "" {
		return fmt.Errorf("telegram not configured")
	}
	text := s.orderSummary(o)
	apiURL := "https://api.telegram.org/bot" + s.telegram.BotToken + "/sendMessage"

	var lastErr error
	sent := false
	for _, part := range strings.Split(s.telegram.ChatIDs, ",") {
		id := strings.TrimSpace(part)
		if id == "" {
			continue
		}
		form := url.Values{}
		form.Set("chat_id", id)
		form.Set("text", text)
		form.Set("disable_web_page_preview", "1")
		resp, err := http.PostForm(apiURL, form)
		if err != nil {
			lastErr = err
			continue
		}
		func() {
			defer resp.Body.Close()
			if resp.StatusCode >= 300 {
				body, _ := io.ReadAll(resp.Body)
				lastErr = fmt.Errorf("telegram status %d: %s", resp.StatusCode, string(body))
				return
			}
			sent = true
		}()
	}
	if !sent && lastErr == nil {
		return fmt.Errorf("no telegram chat ids configured")
	}
	if !sent {
		return lastErr
	}
	return nil
}
