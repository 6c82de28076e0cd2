package sveve

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type sendRequestDTO struct {
	User     string   `json:"user"`
	Passwd   string   `json:"passwd"`
	F        string   `json:"f"`
	Test     bool     `json:"test"`
	Messages []smsDTO `json:"messages"`
}

type smsDTO struct {
	To               string `json:"to"`
	Msg              string `json:"msg"`
	From             string `json:"from,omitempty"`
	Reply            *bool  `json:"reply,omitempty"`
	ReplyTo          int    `json:"reply_to,omitempty"`
	DateTime         string `json:"date_time,omitempty"`
	Ref              string `json:"ref,omitempty"`
	Reoccurrence     string `json:"reoccurrence,omitempty"`
	ReoccurrenceEnds string `json:"reoccurrence_ends,omitempty"`
	EndsAfter        int    `json:"ends_after,omitempty"`
	EndsOn           string `json:"ends_on,omitempty"`
}

type sendResponseWrapper struct {
	Response *sendResponseDTO `json:"response"`
}

type sendResponseDTO struct {
	MsgOkCount  int            `json:"msgOkCount"`
	StdSMSCount int            `json:"stdSMSCount"`
	FatalError  string         `json:"fatalError"`
	IDs         []int          `json:"ids"`
	Errors      []sendErrorDTO `json:"errors"`
}

type sendErrorDTO struct {
	Number  string `json:"number"`
	Message string `json:"message"`
}

// Send sends a single SMS.
func (c *Client) Send(ctx context.Context, msg Message) (*SendResponse, error) {
	return c.SendBulk(ctx, []Message{msg})
}

// SendBulk sends several messages in one API request. All messages must
// agree on the test flag. Bulking is useful when the 5-concurrent-request
// limit becomes an issue.
func (c *Client) SendBulk(ctx context.Context, bulk []Message) (*SendResponse, error) {
	request, recipients, err := c.buildSendRequest(bulk)
	if err != nil {
		return nil, err
	}

	dto, err := c.postSendRequest(ctx, request)
	if err != nil {
		return nil, err
	}

	return c.reconcile(recipients, dto, request.Test)
}

// buildSendRequest validates the bulk and assembles the request payload
// along with the recipients in request order. Validation failures never
// reach the network.
func (c *Client) buildSendRequest(bulk []Message) (*sendRequestDTO, []Recipient, error) {
	if len(bulk) == 0 {
		return nil, nil, newValidationError("bulk must contain at least one message")
	}

	request := &sendRequestDTO{
		User:   c.opts.Username,
		Passwd: c.opts.Password,
		F:      "json",
		Test:   c.opts.Test,
	}

	var recipients []Recipient
	for i, msg := range bulk {
		if strings.TrimSpace(msg.To) == "" {
			return nil, nil, newValidationError("message %d has no recipients", i)
		}
		if strings.TrimSpace(msg.Text) == "" {
			return nil, nil, newValidationError("message %d has no text", i)
		}
		if msg.Test != bulk[0].Test {
			return nil, nil, newValidationError("all messages in a bulk must agree on the test flag")
		}

		parsed, err := ParseRecipients(msg.To)
		if err != nil {
			return nil, nil, err
		}
		recipients = append(recipients, parsed...)

		dto := smsDTO{
			To:      msg.To,
			Msg:     msg.Text,
			From:    msg.Sender,
			ReplyTo: msg.ReplyTo,
			Ref:     msg.Reference,
		}
		if dto.From == "" {
			dto.From = c.opts.Sender
		}
		if msg.ReplyAllowed || msg.ReplyTo > 0 {
			reply := true
			dto.Reply = &reply
		}
		if !msg.SendTime.IsZero() {
			dto.DateTime = msg.SendTime.In(c.local).Format("200601021504")
		}
		if msg.Repeat != nil {
			if err := msg.Repeat.validate(); err != nil {
				return nil, nil, err
			}
			msg.Repeat.encode(&dto)
		}

		request.Messages = append(request.Messages, dto)
		request.Test = request.Test || msg.Test
	}

	return request, recipients, nil
}

func (c *Client) postSendRequest(ctx context.Context, request *sendRequestDTO) (*sendResponseDTO, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(request); err != nil {
		return nil, fmt.Errorf("encoding error: %w", err)
	}

	headers := map[string]string{
		"Content-Type": "application/json",
	}

	resp, err := c.http.Post(ctx, c.opts.BaseURL+sendEndpoint, &buf, headers)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%w: the API allows 5 concurrent requests, try again later or use SendBulk", ErrRateLimited)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, NewError(ErrCodeSendRejected,
			fmt.Errorf("could not send SMS: API responded %d", resp.StatusCode))
	}

	var wrapper sendResponseWrapper
	if err := json.NewDecoder(resp.Body).Decode(&wrapper); err != nil {
		return nil, fmt.Errorf("decoding error: %w", err)
	}

	if wrapper.Response == nil {
		return nil, NewError(ErrCodeSendRejected,
			fmt.Errorf("API replied 200 OK without a response body"))
	}

	return wrapper.Response, nil
}
