package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/yutosuda/EC-sub001/pkg/order/domain/model"
)

const defaultTimeout = 15 * time.Second

// Client talks to the remote order API on behalf of one user. It implements
// model.OrderGateway. Any non-2xx status or success=false envelope surfaces
// as an error carrying the server's message.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userID     uuid.UUID
}

func NewClient(baseURL string, userID uuid.UUID) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		userID:     userID,
	}
}

type ordersEnvelope struct {
	Success bool          `json:"success"`
	Orders  []model.Order `json:"orders"`
}

type orderEnvelope struct {
	Success bool         `json:"success"`
	Order   *model.Order `json:"order"`
}

func (c *Client) FetchOrders(ctx context.Context) ([]model.Order, error) {
	var env ordersEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/v1/orders", nil, &env); err != nil {
		return nil, err
	}
	return env.Orders, nil
}

func (c *Client) FetchOrder(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var env orderEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/v1/orders/"+id.String(), nil, &env); err != nil {
		return nil, err
	}
	return env.Order, nil
}

func (c *Client) CreateOrder(ctx context.Context, draft model.OrderDraft) (*model.Order, error) {
	var env orderEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/v1/orders", draft, &env); err != nil {
		return nil, err
	}
	return env.Order, nil
}

func (c *Client) CancelOrder(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var env orderEnvelope
	if err := c.do(ctx, http.MethodPut, "/api/v1/orders/"+id.String()+"/cancel", nil, &env); err != nil {
		return nil, err
	}
	return env.Order, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encode request body")
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-User-ID", c.userID.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "%s %s: read response", method, path)
	}

	var probe struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return errors.Wrapf(err, "%s %s: decode response (status %d)", method, path, resp.StatusCode)
	}
	if resp.StatusCode >= http.StatusBadRequest || !probe.Success {
		message := probe.Message
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return errors.Errorf("%s %s: %s", method, path, message)
	}

	return errors.Wrapf(json.Unmarshal(data, out), "%s %s: decode response", method, path)
}
