package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mybakup/appointment-service/internal/domain"
)

// Client отправляет врачу уведомление о новой заявке через webhook
type Client struct {
	webhookURL string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента уведомлений
func NewClient(webhookURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// NotifyRequestCreated отправляет уведомление о созданной заявке
func (c *Client) NotifyRequestCreated(ctx context.Context, req *domain.AppointmentRequest) error {
	body, err := json.Marshal(newPayload(req))
	if err != nil {
		return fmt.Errorf("%w: failed to encode payload: %v", ErrInternal, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrDeliveryFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: unexpected status code %d", ErrDeliveryFailed, resp.StatusCode)
	}

	c.log.Info("Notified doctor_id=%s about request_id=%d", req.DoctorID, req.ID)
	return nil
}

// Nop уведомления отключены
type Nop struct{}

// NotifyRequestCreated ничего не делает
func (Nop) NotifyRequestCreated(context.Context, *domain.AppointmentRequest) error {
	return nil
}
