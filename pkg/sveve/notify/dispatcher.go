package notify

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Result is the HTTP answer the webhook must give the API. The API
// retries on 5xx, so a failed or unconsumed notification must never be
// answered with 200.
type Result struct {
	Status int
	Body   string
}

func ok(eventType string) Result {
	return Result{Status: http.StatusOK, Body: "Accepted " + eventType}
}

func badRequest(body string) Result {
	return Result{Status: http.StatusBadRequest, Body: body}
}

func missingParameter(name string) Result {
	return badRequest("Missing required parameter: " + name)
}

// The API does not carry structured error detail, and it is an external
// caller: internal failures are answered with a bare 500.
var internalError = Result{Status: http.StatusInternalServerError}

// Dispatcher classifies an inbound callback by its query parameters and
// invokes every registered consumer for the resolved notification kind.
// The consumer lists are fixed at construction.
type Dispatcher struct {
	delivery []DeliveryConsumer
	messages []MessageConsumer
	logger   *zap.Logger
}

// NewDispatcher returns a dispatcher over the given consumers.
func NewDispatcher(delivery []DeliveryConsumer, messages []MessageConsumer, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{delivery: delivery, messages: messages, logger: logger}
}

// Dispatch resolves the notification kind from the query parameters and
// fans it out. Consumers run sequentially; the first failure aborts the
// remaining ones so a partially processed notification is retried rather
// than silently treated as delivered.
func (d *Dispatcher) Dispatch(ctx context.Context, query url.Values) Result {
	number := strings.TrimSpace(query.Get("number"))
	if number == "" {
		return missingParameter("number")
	}

	if query.Has("status") {
		return d.dispatchDeliveryReport(ctx, number, query)
	}

	return d.dispatchIncomingSms(ctx, number, query)
}

func (d *Dispatcher) dispatchDeliveryReport(ctx context.Context, number string, query url.Values) Result {
	if strings.TrimSpace(query.Get("id")) == "" {
		return missingParameter("id")
	}

	status, err := strconv.ParseBool(query.Get("status"))
	if err != nil {
		return badRequest("Invalid parameter: status")
	}
	id, err := strconv.Atoi(query.Get("id"))
	if err != nil {
		return badRequest("Invalid parameter: id")
	}

	sms := OutgoingSms{
		ReceiverPhoneNumber: number,
		MessageID:           id,
		Reference:           query.Get("ref"),
	}

	if len(d.delivery) == 0 {
		return d.noConsumers("delivery_report")
	}

	if status {
		return d.consumeDelivery(ctx, func(consumer DeliveryConsumer) error {
			return consumer.OnDelivered(ctx, sms)
		})
	}

	deliveryError := DeliveryError{
		Code:        query.Get("errorCode"),
		Description: query.Get("errorDesc"),
	}
	return d.consumeDelivery(ctx, func(consumer DeliveryConsumer) error {
		return consumer.OnFailed(ctx, sms, deliveryError)
	})
}

func (d *Dispatcher) dispatchIncomingSms(ctx context.Context, number string, query url.Values) Result {
	msg := query.Get("msg")
	if strings.TrimSpace(msg) == "" {
		return missingParameter("msg")
	}

	if len(d.messages) == 0 {
		return d.noConsumers("incoming_sms")
	}

	if idParam := strings.TrimSpace(query.Get("id")); idParam != "" {
		id, err := strconv.Atoi(idParam)
		if err != nil {
			return badRequest("Invalid parameter: id")
		}
		sms := ReplySms{SenderPhoneNumber: number, MessageID: id, Message: msg}
		return d.consumeMessage(ctx, func(consumer MessageConsumer) error {
			return consumer.OnReply(ctx, sms)
		})
	}

	if prefix := strings.TrimSpace(query.Get("prefix")); prefix != "" {
		sms := CodeWordSms{
			CodeWord:          prefix,
			SenderPhoneNumber: number,
			Message:           msg,
			SenderName:        query.Get("name"),
			SenderAddress:     query.Get("address"),
		}
		return d.consumeMessage(ctx, func(consumer MessageConsumer) error {
			return consumer.OnCodeWord(ctx, sms)
		})
	}

	if shortnumber := strings.TrimSpace(query.Get("shortnumber")); shortnumber != "" {
		sms := DedicatedNumberSms{
			DedicatedPhoneNumber: shortnumber,
			SenderPhoneNumber:    number,
			Message:              msg,
			SenderName:           query.Get("name"),
			SenderAddress:        query.Get("address"),
		}
		return d.consumeMessage(ctx, func(consumer MessageConsumer) error {
			return consumer.OnDedicatedNumber(ctx, sms)
		})
	}

	return badRequest(`The request is ambiguous. One of "status", "id", "prefix" or "shortnumber" is required to identify the notification type.`)
}

func (d *Dispatcher) consumeDelivery(ctx context.Context, consume func(DeliveryConsumer) error) Result {
	for _, consumer := range d.delivery {
		if err := consume(consumer); err != nil {
			return d.consumerFailed("delivery_report", err)
		}
	}
	d.logger.Info("consumed notification", zap.String("event_type", "delivery_report"))
	return ok("delivery_report")
}

func (d *Dispatcher) consumeMessage(ctx context.Context, consume func(MessageConsumer) error) Result {
	for _, consumer := range d.messages {
		if err := consume(consumer); err != nil {
			return d.consumerFailed("incoming_sms", err)
		}
	}
	d.logger.Info("consumed notification", zap.String("event_type", "incoming_sms"))
	return ok("incoming_sms")
}

func (d *Dispatcher) noConsumers(eventType string) Result {
	// A callback is configured at the API but nothing consumes it.
	// Answer 500 so the API retries and an operator notices.
	d.logger.Error("no consumers registered for notification",
		zap.String("event_type", eventType))
	return internalError
}

func (d *Dispatcher) consumerFailed(eventType string, err error) Result {
	// The error is logged but never echoed to the external caller.
	d.logger.Error("consumer failed to process notification",
		zap.String("event_type", eventType),
		zap.Error(err))
	return internalError
}
