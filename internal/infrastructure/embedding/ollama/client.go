package ollama

import (
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/confract/internal/infrastructure/resilience"
)

const defaultBatchSize = 32

type Client struct {
	baseURL    string
	embedModel string
	batchSize  int
	httpClient *http.Client
	executor   *resilience.Executor
}

type Options struct {
	Timeout            time.Duration
	BatchSize          int
	ResilienceExecutor *resilience.Executor
}

func New(baseURL, embedModel string) *Client {
	return NewWithOptions(baseURL, embedModel, Options{})
}

func NewWithOptions(baseURL, embedModel string, options Options) *Client {
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	batchSize := options.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		embedModel: embedModel,
		batchSize:  batchSize,
		httpClient: &http.Client{Timeout: timeout},
		executor:   options.ResilienceExecutor,
	}
}

// Model is the embedding model name sent with every request.
func (c *Client) Model() string {
	return c.embedModel
}
