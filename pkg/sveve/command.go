package sveve

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	sendEndpoint  = "/SMS/SendMessage"
	groupEndpoint = "/SMS/RecipientAdm"
	adminEndpoint = "/SMS/AccountAdm"
)

// The API reports errors as fixed response prefixes instead of structured
// codes. The sentinels below are the de facto wire contract; keep every
// match behind the predicate functions so a wording change is a one-line
// fix.
const (
	badCredentialsSentinel = "Feil brukernavn/passord"
	missingGroupSentinel   = "Gruppen finnes ikke: "
)

func isBadCredentials(reply string) bool {
	return strings.HasPrefix(reply, badCredentialsSentinel)
}

func isMissingGroup(reply, group string) bool {
	return strings.HasPrefix(reply, missingGroupSentinel+group)
}

// invokeCommand performs one of the plain-text admin commands. The reply
// body is returned verbatim unless it matches the bad-credentials
// sentinel or the request was rejected outright.
func (c *Client) invokeCommand(ctx context.Context, endpoint, cmd string, params map[string]string) (string, error) {
	query := url.Values{}
	query.Set("user", c.opts.Username)
	query.Set("passwd", c.opts.Password)
	query.Set("cmd", cmd)
	for key, value := range params {
		query.Set(key, value)
	}

	resp, err := c.http.Get(ctx, c.opts.BaseURL+endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("%w: the API allows 5 concurrent requests, try again later", ErrRateLimited)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", NewError(ErrCodeCommandRejected,
			fmt.Errorf("command %s rejected with status %d", cmd, resp.StatusCode))
	}

	reply := string(body)
	if isBadCredentials(reply) {
		return "", ErrInvalidCredentials
	}

	return reply, nil
}

// commandLines invokes a command and splits the reply into its non-blank
// lines. List commands reply with one entry per line.
func (c *Client) commandLines(ctx context.Context, endpoint, cmd string, params map[string]string) ([]string, error) {
	reply, err := c.invokeCommand(ctx, endpoint, cmd, params)
	if err != nil {
		return nil, err
	}

	lines := make([]string, 0)
	for _, line := range strings.Split(reply, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, strings.TrimSpace(line))
		}
	}

	return lines, nil
}
