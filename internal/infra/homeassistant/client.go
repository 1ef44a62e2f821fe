package homeassistant

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"smart-home/internal/domain"
	"smart-home/internal/infra"
)

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	retry      infra.RetryConfig
}

func NewClient(baseURL, token string) *Client {
	// Remove trailing slash if present
	baseURL = strings.TrimSuffix(baseURL, "/")

	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		retry:      infra.DefaultRetryConfig(),
	}
}

// WithRetry replaces the retry policy used for every request.
func (c *Client) WithRetry(cfg infra.RetryConfig) *Client {
	c.retry = cfg
	return c
}

// Entity represents a Home Assistant entity
type Entity struct {
	EntityID    string                 `json:"entity_id"`
	State       string                 `json:"state"`
	Attributes  map[string]interface{} `json:"attributes"`
	LastChanged string                 `json:"last_changed"`
}

// GetDevices maps switches and lights to sockets and temperature sensors
// to thermometers. Other entities are skipped.
func (c *Client) GetDevices(ctx context.Context) ([]domain.Device, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/states", nil)
	if err != nil {
		return nil, fmt.Errorf("fetching states: %w", err)
	}

	var entities []Entity
	if err := json.Unmarshal(resp, &entities); err != nil {
		return nil, fmt.Errorf("parsing states: %w", err)
	}

	devices := make([]domain.Device, 0)
	for _, e := range entities {
		if d := entityToDevice(e); d != nil {
			devices = append(devices, d)
		}
	}

	return devices, nil
}

func entityToDevice(e Entity) domain.Device {
	parts := strings.SplitN(e.EntityID, ".", 2)
	if len(parts) != 2 {
		return nil
	}

	name := e.EntityID
	if friendlyName, ok := e.Attributes["friendly_name"].(string); ok && friendlyName != "" {
		name = friendlyName
	}

	switch parts[0] {
	case "switch", "light":
		state := domain.SocketOff
		if e.State == "on" {
			state = domain.SocketOn
		}
		return domain.NewSocket(name, state)

	case "sensor":
		if class, _ := e.Attributes["device_class"].(string); class != "temperature" {
			return nil
		}
		reading := e.State
		if unit, ok := e.Attributes["unit_of_measurement"].(string); ok && unit != "" {
			reading += " " + unit
		}
		return domain.NewThermometer(name, reading)

	default:
		return nil
	}
}

func (c *Client) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var respBody []byte

	retryErr := infra.WithRetry(ctx, c.retry, func() error {
		var bodyReader io.Reader
		if body != nil {
			bodyReader = strings.NewReader(string(body))
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}

		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("sending request: %w", err)
		}
		defer resp.Body.Close()

		respBody, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading response: %w", err)
		}

		if resp.StatusCode == http.StatusUnauthorized {
			return infra.Permanent(fmt.Errorf("unauthorized: check your Home Assistant token"))
		}

		if infra.IsRetryableHTTPStatus(resp.StatusCode) {
			return fmt.Errorf("home assistant API error %d (retryable): %s", resp.StatusCode, string(respBody))
		}

		if resp.StatusCode >= 400 {
			return infra.Permanent(fmt.Errorf("home assistant API error %d: %s", resp.StatusCode, string(respBody)))
		}

		return nil
	})

	if retryErr != nil {
		return nil, retryErr
	}

	return respBody, nil
}
