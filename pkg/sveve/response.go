package sveve

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// SendError is one per-recipient error reported by the API.
type SendError struct {
	PhoneNumber string
	Message     string
}

// SendResult is the outcome for a single phone-number recipient.
type SendResult struct {
	Recipient Recipient
	MessageID int
	Error     string
	Test      bool
}

// Failed reports whether the message to this recipient was rejected.
func (r SendResult) Failed() bool {
	return r.Error != ""
}

// SendResponse is the reconciled outcome of a send request.
type SendResponse struct {
	// SentCount is the number of accepted messages.
	SentCount int

	// UnitCost is the cost of the request in SMS units.
	UnitCost int

	// Test is true when the request was a test request.
	Test bool

	// Errors lists every per-recipient error reported by the API.
	Errors []SendError

	results    []SendResult
	failures   map[string]string
	messageIDs map[string]int
	groupBatch bool
}

// Results returns one outcome per recipient in request order. When the
// request included group recipients, or when message IDs could not be
// attributed unambiguously, only the failure outcomes are returned.
func (r *SendResponse) Results() []SendResult {
	return r.results
}

// MessageID returns the ID assigned to the message sent to phoneNumber.
func (r *SendResponse) MessageID(phoneNumber string) (int, error) {
	recipient, err := ParseRecipient(phoneNumber)
	if err != nil {
		return 0, err
	}
	if !recipient.phone {
		return 0, newValidationError("%q is not a phone number", phoneNumber)
	}

	if r.groupBatch {
		return 0, ErrGroupMessageIDs
	}

	if id, ok := r.messageIDs[recipient.normalized]; ok {
		return id, nil
	}

	if reason, ok := r.failures[recipient.normalized]; ok {
		return 0, NewError(ErrCodeNotSent,
			fmt.Errorf("SMS to %s was not sent: %s", recipient.normalized, reason))
	}

	return 0, NewError(ErrCodeNotSent,
		fmt.Errorf("no message ID for %s: the number was not part of the request", recipient.normalized))
}

// reconcile maps the flat id/error arrays of the response back onto the
// ordered recipient list. The API only tags failures with a phone number;
// successes are attributed by position, which is safe only when every
// recipient is a phone number and the counts match exactly.
func (c *Client) reconcile(recipients []Recipient, dto *sendResponseDTO, test bool) (*SendResponse, error) {
	if isBadCredentials(dto.FatalError) {
		return nil, ErrInvalidCredentials
	}
	if strings.TrimSpace(dto.FatalError) != "" {
		return nil, NewError(ErrCodeSendRejected,
			fmt.Errorf("could not send SMS: API replied %q", dto.FatalError))
	}

	failures := make(map[string]string, len(dto.Errors))
	vendorErrors := make([]vendorError, 0, len(dto.Errors))
	displayErrors := make([]SendError, 0, len(dto.Errors))
	for _, e := range dto.Errors {
		// Error numbers that don't parse are kept verbatim so no vendor
		// error is ever dropped.
		recipient, err := ParseRecipient(e.Number)
		if err != nil {
			recipient = Recipient{raw: e.Number, normalized: e.Number}
		}
		failures[recipient.normalized] = e.Message
		vendorErrors = append(vendorErrors, vendorError{recipient: recipient, message: e.Message})
		displayErrors = append(displayErrors, SendError{PhoneNumber: recipient.normalized, Message: e.Message})
	}

	response := &SendResponse{
		SentCount: dto.MsgOkCount,
		UnitCost:  dto.StdSMSCount,
		Test:      test,
		Errors:    displayErrors,
		failures:  failures,
	}

	for _, recipient := range recipients {
		if !recipient.phone {
			// Group recipients are not expanded in the response, so
			// message IDs cannot be attributed for this batch at all.
			response.groupBatch = true
			response.results = failureResults(vendorErrors, test)
			return response, nil
		}
	}

	ids := make([]int, 0, len(dto.IDs))
	for _, id := range dto.IDs {
		if id > 0 {
			ids = append(ids, id)
		}
	}

	accepted := 0
	for _, recipient := range recipients {
		if _, failed := failures[recipient.normalized]; !failed {
			accepted++
		}
	}

	if len(ids) == 0 {
		if accepted > 0 {
			c.logger.Warn("API did not return any message IDs",
				zap.Int("sent_count", dto.MsgOkCount),
				zap.Int("accepted", accepted))
		}
		response.results = failureResults(vendorErrors, test)
		return response, nil
	}

	if accepted != len(ids) {
		// The positional pairing would be a guess. Report the partial
		// result instead of fabricating attributions.
		c.logger.Warn("message ID count does not match accepted recipients",
			zap.Int("ids", len(ids)),
			zap.Int("accepted", accepted))
		response.results = failureResults(vendorErrors, test)
		return response, nil
	}

	messageIDs := make(map[string]int, accepted)
	results := make([]SendResult, 0, len(recipients)+len(vendorErrors))
	matched := make(map[string]bool, len(failures))
	next := 0
	for _, recipient := range recipients {
		if reason, failed := failures[recipient.normalized]; failed {
			matched[recipient.normalized] = true
			results = append(results, SendResult{Recipient: recipient, Error: reason, Test: test})
			continue
		}
		id := ids[next]
		next++
		messageIDs[recipient.normalized] = id
		results = append(results, SendResult{Recipient: recipient, MessageID: id, Test: test})
	}

	// Error entries the request never addressed are still failures.
	for _, e := range vendorErrors {
		if !matched[e.recipient.normalized] {
			results = append(results, SendResult{Recipient: e.recipient, Error: e.message, Test: test})
		}
	}

	response.messageIDs = messageIDs
	response.results = results
	return response, nil
}

type vendorError struct {
	recipient Recipient
	message   string
}

func failureResults(vendorErrors []vendorError, test bool) []SendResult {
	results := make([]SendResult, 0, len(vendorErrors))
	for _, e := range vendorErrors {
		results = append(results, SendResult{Recipient: e.recipient, Error: e.message, Test: test})
	}
	return results
}
