package notify

import "context"

// DeliveryConsumer is notified when a sent SMS is delivered or fails.
type DeliveryConsumer interface {
	OnDelivered(ctx context.Context, sms OutgoingSms) error
	OnFailed(ctx context.Context, sms OutgoingSms, deliveryError DeliveryError) error
}

// MessageConsumer is notified when an SMS is received.
type MessageConsumer interface {
	OnReply(ctx context.Context, sms ReplySms) error
	OnCodeWord(ctx context.Context, sms CodeWordSms) error
	OnDedicatedNumber(ctx context.Context, sms DedicatedNumberSms) error
}
