package consumers

import (
	"context"
	"encoding/json"

	"github.com/telemark/sveve-gateway/pkg/mq"
	"github.com/telemark/sveve-gateway/pkg/sveve/notify"
	"go.uber.org/zap"
)

var (
	_ notify.DeliveryConsumer = (*ForwardConsumer)(nil)
	_ notify.MessageConsumer  = (*ForwardConsumer)(nil)
)

// ForwardConsumer publishes every notification onto a message queue so
// downstream services can process them asynchronously. A publish failure
// is returned to the dispatcher, which answers 500 and lets the API
// retry the notification later.
type ForwardConsumer struct {
	publisher mq.Publisher
	queue     string
	logger    *zap.Logger
}

func NewForwardConsumer(publisher mq.Publisher, queue string, logger *zap.Logger) *ForwardConsumer {
	return &ForwardConsumer{publisher: publisher, queue: queue, logger: logger}
}

type notificationEnvelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type failedDelivery struct {
	Sms   notify.OutgoingSms   `json:"sms"`
	Error notify.DeliveryError `json:"error"`
}

func (f *ForwardConsumer) OnDelivered(ctx context.Context, sms notify.OutgoingSms) error {
	return f.publish(ctx, "delivery_success", sms)
}

func (f *ForwardConsumer) OnFailed(ctx context.Context, sms notify.OutgoingSms, deliveryError notify.DeliveryError) error {
	return f.publish(ctx, "delivery_failure", failedDelivery{Sms: sms, Error: deliveryError})
}

func (f *ForwardConsumer) OnReply(ctx context.Context, sms notify.ReplySms) error {
	return f.publish(ctx, "reply", sms)
}

func (f *ForwardConsumer) OnCodeWord(ctx context.Context, sms notify.CodeWordSms) error {
	return f.publish(ctx, "code_word", sms)
}

func (f *ForwardConsumer) OnDedicatedNumber(ctx context.Context, sms notify.DedicatedNumberSms) error {
	return f.publish(ctx, "dedicated_number", sms)
}

func (f *ForwardConsumer) publish(ctx context.Context, eventType string, payload any) error {
	body, err := json.Marshal(notificationEnvelope{Type: eventType, Payload: payload})
	if err != nil {
		return err
	}

	if err := f.publisher.Publish(ctx, "", f.queue, body); err != nil {
		f.logger.Error("failed to publish notification",
			zap.Error(err),
			zap.String("type", eventType),
			zap.String("queue", f.queue))
		return err
	}

	return nil
}
