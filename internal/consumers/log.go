package consumers

import (
	"context"

	"github.com/telemark/sveve-gateway/pkg/sveve/notify"
	"go.uber.org/zap"
)

var (
	_ notify.DeliveryConsumer = (*LogConsumer)(nil)
	_ notify.MessageConsumer  = (*LogConsumer)(nil)
)

// LogConsumer writes every notification to the structured log.
type LogConsumer struct {
	logger *zap.Logger
}

func NewLogConsumer(logger *zap.Logger) *LogConsumer {
	return &LogConsumer{logger: logger}
}

func (l *LogConsumer) OnDelivered(ctx context.Context, sms notify.OutgoingSms) error {
	l.logger.Info("sms delivered",
		zap.String("number", sms.ReceiverPhoneNumber),
		zap.Int("messageID", sms.MessageID),
		zap.String("ref", sms.Reference))
	return nil
}

func (l *LogConsumer) OnFailed(ctx context.Context, sms notify.OutgoingSms, deliveryError notify.DeliveryError) error {
	l.logger.Warn("sms delivery failed",
		zap.String("number", sms.ReceiverPhoneNumber),
		zap.Int("messageID", sms.MessageID),
		zap.String("ref", sms.Reference),
		zap.String("errorCode", deliveryError.Code),
		zap.String("errorDesc", deliveryError.Description))
	return nil
}

func (l *LogConsumer) OnReply(ctx context.Context, sms notify.ReplySms) error {
	l.logger.Info("received reply sms",
		zap.String("from", sms.SenderPhoneNumber),
		zap.Int("messageID", sms.MessageID))
	return nil
}

func (l *LogConsumer) OnCodeWord(ctx context.Context, sms notify.CodeWordSms) error {
	l.logger.Info("received code word sms",
		zap.String("from", sms.SenderPhoneNumber),
		zap.String("codeWord", sms.CodeWord))
	return nil
}

func (l *LogConsumer) OnDedicatedNumber(ctx context.Context, sms notify.DedicatedNumberSms) error {
	l.logger.Info("received sms to dedicated number",
		zap.String("from", sms.SenderPhoneNumber),
		zap.String("number", sms.DedicatedPhoneNumber))
	return nil
}
