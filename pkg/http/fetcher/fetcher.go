package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var ErrUnexpectedStatus = errors.New("upstream responded with unexpected status")
var ErrBodyTooLarge = errors.New("upstream response body is too large")

type fetcherConfig struct {
	client      *http.Client
	timeout     time.Duration
	checkStatus bool
	maxBodySize int64
}

type Option func(*fetcherConfig)

// WithTimeout ограничивает время всего запроса к ленте, включая чтение тела.
// Нулевое значение означает отсутствие ограничения
func WithTimeout(timeout time.Duration) Option {
	return func(c *fetcherConfig) {
		c.timeout = timeout
	}
}

// WithStatusCheck включает проверку кода ответа: всё, что не 2xx, считается ошибкой
func WithStatusCheck(check bool) Option {
	return func(c *fetcherConfig) {
		c.checkStatus = check
	}
}

// WithMaxBodySize ограничивает размер тела ответа в байтах. 0 - без ограничений
func WithMaxBodySize(size int64) Option {
	return func(c *fetcherConfig) {
		c.maxBodySize = size
	}
}

func WithClient(client *http.Client) Option {
	return func(c *fetcherConfig) {
		c.client = client
	}
}

type Fetcher struct {
	client      *http.Client
	checkStatus bool
	maxBodySize int64
}

func New(opts ...Option) *Fetcher {
	cfg := fetcherConfig{
		client: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	client := cfg.client
	if cfg.timeout > 0 {
		// Не трогаем переданный клиент, а работаем с его копией
		withTimeout := *client
		withTimeout.Timeout = cfg.timeout
		client = &withTimeout
	}
	return &Fetcher{
		client:      client,
		checkStatus: cfg.checkStatus,
		maxBodySize: cfg.maxBodySize,
	}
}

// Fetch выполняет GET запрос по указанному адресу и возвращает тело ответа.
// По умолчанию код ответа не проверяется: тело 404 страницы вернется так же, как и тело ленты
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to create request to %s: %w", url, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if f.checkStatus && (resp.StatusCode < 200 || resp.StatusCode > 299) {
		return nil, fmt.Errorf("%w %d from %s", ErrUnexpectedStatus, resp.StatusCode, url)
	}

	var body io.Reader = resp.Body
	if f.maxBodySize > 0 {
		// Читаем на байт больше лимита, чтобы отличить тело ровно на лимит от превысившего его
		body = io.LimitReader(resp.Body, f.maxBodySize+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("unable to read response from %s: %w", url, err)
	}
	if f.maxBodySize > 0 && int64(len(data)) > f.maxBodySize {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, f.maxBodySize)
	}
	return data, nil
}
