package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// APIError ошибка бэкенда: код ответа и сообщение из тела
type APIError struct {
	Status  int
	Message string
	Method  string
	Path    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
}

// IsStatus проверяет, что ошибка пришла от бэкенда с указанным кодом
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// TokenSource откуда брать токен для заголовка Authorization
type TokenSource interface {
	Token() string
}

// APIClient клиент REST API планировщика
type APIClient struct {
	baseURL string
	client  *http.Client
	tokens  TokenSource
}

// NewAPIClient создаёт клиент. tokens может быть nil, тогда запросы идут без авторизации.
func NewAPIClient(baseURL string, timeout time.Duration, tokens TokenSource) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

func (c *APIClient) createRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return req, nil
}

// Do выполняет запрос: in кодируется в JSON, ответ раскладывается в out (если out не nil)
func (c *APIClient) Do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("не удалось сериализовать запрос: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := c.createRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: чтение ответа: %w", method, path, err)
	}

	if resp.StatusCode >= 400 {
		return &APIError{
			Status:  resp.StatusCode,
			Message: errorMessage(bodyBytes, resp.Status),
			Method:  method,
			Path:    path,
		}
	}

	if out == nil || len(bytes.TrimSpace(bodyBytes)) == 0 {
		return nil
	}

	bodyStr := string(bodyBytes)
	if strings.HasPrefix(strings.TrimSpace(bodyStr), "<") {
		return fmt.Errorf("%s %s: API вернул HTML вместо JSON", method, path)
	}

	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("ошибка разбора JSON: %w (первые 200 символов: %s)", err, truncate(bodyStr, 200))
	}
	return nil
}

// Get GET-запрос с параметрами
func (c *APIClient) Get(ctx context.Context, path string, query url.Values, out any) error {
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// errorMessage достаёт "message" (или "error") из JSON-ответа с ошибкой
func errorMessage(body []byte, fallback string) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" && !strings.HasPrefix(text, "<") {
		return truncate(text, 200)
	}
	return fallback
}

// truncate обрезает до maxLen байт, не разрывая символ UTF-8
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
