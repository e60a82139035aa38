package arm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/azurelinux/aitl/internal/imagetest"
	"github.com/google/uuid"
)

// Options configures a Client. Endpoint defaults to the provider's canary
// region endpoint, Out to stdout.
type Options struct {
	Token          string
	Endpoint       string
	SubscriptionID string
	ResourceGroup  string
	HTTPClient     *http.Client
	Logger         *slog.Logger
	Out            io.Writer
}

// Client is an authenticated session against the image testing resource
// provider. It is constructed once at startup and passed to each command
// handler. Responses are printed, not returned: 2xx bodies are
// pretty-printed, error bodies are printed raw before the error is returned.
type Client struct {
	token          string
	endpoint       string
	subscriptionID string
	resourceGroup  string
	httpClient     *http.Client
	log            *slog.Logger
	out            io.Writer
}

func NewClient(opts Options) *Client {
	c := &Client{
		token:          opts.Token,
		endpoint:       opts.Endpoint,
		subscriptionID: opts.SubscriptionID,
		resourceGroup:  opts.ResourceGroup,
		httpClient:     opts.HTTPClient,
		log:            opts.Logger,
		out:            opts.Out,
	}
	if c.endpoint == "" {
		c.endpoint = imagetest.DefaultEndpoint
	}
	if c.httpClient == nil {
		c.httpClient = http.DefaultClient
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	if c.out == nil {
		c.out = os.Stdout
	}
	return c
}

// Endpoint builds the full URL for a provider segment using the client's
// subscription and resource group.
func (c *Client) Endpoint(segment string) string {
	return imagetest.Endpoint(c.endpoint, c.subscriptionID, c.resourceGroup, segment)
}

// Get fetches a resource or collection and prints the response.
func (c *Client) Get(ctx context.Context, endpoint string) error {
	return c.do(ctx, http.MethodGet, endpoint, nil)
}

// Put creates or updates a resource from the given payload and prints the
// response.
func (c *Client) Put(ctx context.Context, endpoint string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding request payload: %w", err)
	}
	return c.do(ctx, http.MethodPut, endpoint, body)
}

// Delete removes a resource and prints the response.
func (c *Client) Delete(ctx context.Context, endpoint string) error {
	return c.do(ctx, http.MethodDelete, endpoint, nil)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body []byte) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("building %s request: %w", method, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("x-ms-client-request-id", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug("sending request",
		slog.String("method", method),
		slog.String("endpoint", endpoint),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		// Surface the provider's error JSON as-is.
		fmt.Fprintln(c.out, string(respBody))
		return fmt.Errorf("%s %s returned %s", method, endpoint, resp.Status)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, respBody, "", "  "); err != nil {
		// Not JSON; print what we got.
		fmt.Fprintln(c.out, string(respBody))
		return nil
	}
	fmt.Fprintln(c.out, pretty.String())

	return nil
}
