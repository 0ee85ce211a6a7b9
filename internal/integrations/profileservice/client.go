package profileservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mybakup/appointment-service/internal/domain"
)

// Client клиент для работы с ProfileService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента ProfileService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetUser получает профиль аутентифицированного пользователя
func (c *Client) GetUser(ctx context.Context, userID int64) (*domain.AuthUser, error) {
	endpoint := fmt.Sprintf("%s/internal/users/%d", c.baseURL, userID)

	var user User
	if err := c.get(ctx, endpoint, ErrUserNotFound, &user); err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			c.log.Error("ProfileService GetUser failed for user_id=%d: %v", userID, err)
		}
		return nil, err
	}

	// имя пациента сохраняется в заявке, длина ограничена
	if len(user.FirstName) > domain.MaxNameLength || len(user.LastName) > domain.MaxNameLength {
		c.log.Warn("ProfileService returned oversized name for user_id=%d", userID)
		return nil, fmt.Errorf("%w: user name is longer than %d characters", ErrInvalidResponse, domain.MaxNameLength)
	}

	return &domain.AuthUser{
		ID:        userID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
	}, nil
}

// GetBeneficiary получает бенефициара пользователя
// Ответ проверяется теми же правилами, что и бенефициар, введенный вручную
func (c *Client) GetBeneficiary(ctx context.Context, userID int64, beneficiaryID string) (*domain.Beneficiary, error) {
	endpoint := fmt.Sprintf("%s/internal/users/%d/beneficiaries/%s", c.baseURL, userID, url.PathEscape(beneficiaryID))

	var b Beneficiary
	if err := c.get(ctx, endpoint, ErrBeneficiaryNotFound, &b); err != nil {
		if !errors.Is(err, ErrBeneficiaryNotFound) {
			c.log.Error("ProfileService GetBeneficiary failed for user_id=%d, beneficiary_id=%s: %v", userID, beneficiaryID, err)
		}
		return nil, err
	}

	beneficiary, err := domain.NewBeneficiary(
		b.ID,
		b.FirstName,
		b.LastName,
		domain.Gender(b.Gender),
		b.Age,
		b.Phone,
		b.Relationship,
	)
	if err != nil {
		c.log.Warn("ProfileService returned invalid beneficiary_id=%s for user_id=%d: %v", beneficiaryID, userID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return beneficiary, nil
}

func (c *Client) get(ctx context.Context, endpoint string, notFound error, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch {
	case resp.StatusCode == http.StatusOK:
		// Продолжаем обработку
	case resp.StatusCode == http.StatusNotFound:
		return notFound
	case resp.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%w: status code %d", ErrServiceUnavailable, resp.StatusCode)
	default:
		var errResp ErrorResponse
		body, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(body, &errResp) == nil && errResp.Message != "" {
			return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, errResp.Message)
		}
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	// Парсим ответ
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
