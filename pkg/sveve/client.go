package sveve

import (
	"context"
	"strings"
	"time"

	"github.com/telemark/sveve-gateway/pkg/httpclient"
	"go.uber.org/zap"
)

// DefaultBaseURL is the production API address.
const DefaultBaseURL = "https://sveve.no"

// Options configures a Client. The value is copied on construction and
// never mutated afterwards, so a single Client is safe for concurrent use.
type Options struct {
	// BaseURL of the API. Defaults to DefaultBaseURL.
	BaseURL string

	// Username for the API account.
	Username string

	// Password is the API password, not the account password.
	Password string

	// Sender is the default sender name. Individual messages may
	// override it.
	Sender string

	// Test marks every request as a test request. The API processes
	// test requests without delivering anything to a handset.
	Test bool
}

// Client is a managed client for the Sveve SMS API.
//
// The API allows at most 5 concurrent requests per account. Callers
// exceeding that limit receive ErrRateLimited; the client does not
// throttle or queue on its own.
type Client struct {
	opts   Options
	http   httpclient.HTTPClient
	logger *zap.Logger
	local  *time.Location
}

// NewClient validates opts and returns a client using the given transport.
func NewClient(opts Options, client httpclient.HTTPClient, logger *zap.Logger) (*Client, error) {
	if strings.TrimSpace(opts.Username) == "" {
		return nil, newValidationError("username is required")
	}
	if strings.TrimSpace(opts.Password) == "" {
		return nil, newValidationError("password is required")
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	// Scheduled send times are interpreted by the API in its local time.
	local, err := time.LoadLocation("Europe/Oslo")
	if err != nil {
		return nil, err
	}

	return &Client{opts: opts, http: client, logger: logger, local: local}, nil
}

// Groups returns the names of all recipient groups on the account.
func (c *Client) Groups(ctx context.Context) ([]string, error) {
	return c.commandLines(ctx, groupEndpoint, "list_groups", nil)
}

// Group returns a client scoped to the named recipient group.
func (c *Client) Group(name string) (*GroupClient, error) {
	if strings.TrimSpace(name) == "" {
		return nil, newValidationError("group name is required")
	}
	return &GroupClient{client: c, name: strings.TrimSpace(name)}, nil
}
