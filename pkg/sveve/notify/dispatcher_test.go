package notify_test

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/telemark/sveve-gateway/pkg/sveve/notify"
)

type recordingConsumer struct {
	delivered []notify.OutgoingSms
	failed    []notify.OutgoingSms
	errors    []notify.DeliveryError
	replies   []notify.ReplySms
	codeWords []notify.CodeWordSms
	dedicated []notify.DedicatedNumberSms
	err       error
}

func (r *recordingConsumer) OnDelivered(ctx context.Context, sms notify.OutgoingSms) error {
	r.delivered = append(r.delivered, sms)
	return r.err
}

func (r *recordingConsumer) OnFailed(ctx context.Context, sms notify.OutgoingSms, deliveryError notify.DeliveryError) error {
	r.failed = append(r.failed, sms)
	r.errors = append(r.errors, deliveryError)
	return r.err
}

func (r *recordingConsumer) OnReply(ctx context.Context, sms notify.ReplySms) error {
	r.replies = append(r.replies, sms)
	return r.err
}

func (r *recordingConsumer) OnCodeWord(ctx context.Context, sms notify.CodeWordSms) error {
	r.codeWords = append(r.codeWords, sms)
	return r.err
}

func (r *recordingConsumer) OnDedicatedNumber(ctx context.Context, sms notify.DedicatedNumberSms) error {
	r.dedicated = append(r.dedicated, sms)
	return r.err
}

func newTestDispatcher(consumer *recordingConsumer) *notify.Dispatcher {
	return notify.NewDispatcher(
		[]notify.DeliveryConsumer{consumer},
		[]notify.MessageConsumer{consumer},
		nil,
	)
}

func query(pairs map[string]string) url.Values {
	values := url.Values{}
	for key, value := range pairs {
		values.Set(key, value)
	}
	return values
}

func TestDispatch_MissingNumber(t *testing.T) {
	consumer := &recordingConsumer{}
	dispatcher := newTestDispatcher(consumer)

	for _, values := range []url.Values{
		query(nil),
		query(map[string]string{"msg": "Hello"}),
		query(map[string]string{"number": "   ", "msg": "Hello"}),
		query(map[string]string{"status": "true", "id": "1"}),
	} {
		result := dispatcher.Dispatch(context.Background(), values)
		assert.Equal(t, http.StatusBadRequest, result.Status)
		assert.Contains(t, result.Body, "number")
	}

	assert.Empty(t, consumer.delivered)
	assert.Empty(t, consumer.replies)
}

func TestDispatch_DeliveryReport(t *testing.T) {
	t.Run("success report", func(t *testing.T) {
		consumer := &recordingConsumer{}
		dispatcher := newTestDispatcher(consumer)

		result := dispatcher.Dispatch(context.Background(), query(map[string]string{
			"number": "99999999", "status": "true", "id": "12345", "ref": "order-7",
		}))

		assert.Equal(t, http.StatusOK, result.Status)
		assert.Equal(t, "Accepted delivery_report", result.Body)
		require.Len(t, consumer.delivered, 1)
		assert.Equal(t, notify.OutgoingSms{
			ReceiverPhoneNumber: "99999999",
			MessageID:           12345,
			Reference:           "order-7",
		}, consumer.delivered[0])
		assert.Empty(t, consumer.failed)
	})

	t.Run("failure report carries the error detail", func(t *testing.T) {
		consumer := &recordingConsumer{}
		dispatcher := newTestDispatcher(consumer)

		result := dispatcher.Dispatch(context.Background(), query(map[string]string{
			"number": "99999999", "status": "false", "id": "12345",
			"errorCode": "DELIVRD_EXPIRED", "errorDesc": "Message expired",
		}))

		assert.Equal(t, http.StatusOK, result.Status)
		require.Len(t, consumer.failed, 1)
		assert.Equal(t, 12345, consumer.failed[0].MessageID)
		assert.Equal(t, notify.DeliveryError{
			Code:        "DELIVRD_EXPIRED",
			Description: "Message expired",
		}, consumer.errors[0])
		assert.Empty(t, consumer.delivered)
	})

	t.Run("status without id", func(t *testing.T) {
		dispatcher := newTestDispatcher(&recordingConsumer{})

		result := dispatcher.Dispatch(context.Background(), query(map[string]string{
			"number": "99999999", "status": "true",
		}))

		assert.Equal(t, http.StatusBadRequest, result.Status)
		assert.Contains(t, result.Body, "id")
	})

	t.Run("malformed status", func(t *testing.T) {
		dispatcher := newTestDispatcher(&recordingConsumer{})

		result := dispatcher.Dispatch(context.Background(), query(map[string]string{
			"number": "99999999", "status": "maybe", "id": "12345",
		}))

		assert.Equal(t, http.StatusBadRequest, result.Status)
		assert.Equal(t, "Invalid parameter: status", result.Body)
	})

	t.Run("missing id is reported before a malformed status", func(t *testing.T) {
		dispatcher := newTestDispatcher(&recordingConsumer{})

		result := dispatcher.Dispatch(context.Background(), query(map[string]string{
			"number": "99999999", "status": "maybe",
		}))

		assert.Equal(t, http.StatusBadRequest, result.Status)
		assert.Equal(t, "Missing required parameter: id", result.Body)
	})
}

func TestDispatch_IncomingSms(t *testing.T) {
	t.Run("code word", func(t *testing.T) {
		consumer := &recordingConsumer{}
		dispatcher := newTestDispatcher(consumer)

		result := dispatcher.Dispatch(context.Background(), query(map[string]string{
			"number": "11111111", "msg": "Hello", "prefix": "abc",
			"name": "Kari Nordmann", "address": "Gate 1",
		}))

		assert.Equal(t, http.StatusOK, result.Status)
		assert.Equal(t, "Accepted incoming_sms", result.Body)
		require.Len(t, consumer.codeWords, 1)
		assert.Equal(t, notify.CodeWordSms{
			CodeWord:          "abc",
			SenderPhoneNumber: "11111111",
			Message:           "Hello",
			SenderName:        "Kari Nordmann",
			SenderAddress:     "Gate 1",
		}, consumer.codeWords[0])
	})

	t.Run("reply takes precedence over code word", func(t *testing.T) {
		consumer := &recordingConsumer{}
		dispatcher := newTestDispatcher(consumer)

		result := dispatcher.Dispatch(context.Background(), query(map[string]string{
			"number": "11111111", "msg": "Hello", "id": "42", "prefix": "abc",
		}))

		assert.Equal(t, http.StatusOK, result.Status)
		require.Len(t, consumer.replies, 1)
		assert.Equal(t, notify.ReplySms{
			SenderPhoneNumber: "11111111",
			MessageID:         42,
			Message:           "Hello",
		}, consumer.replies[0])
		assert.Empty(t, consumer.codeWords)
	})

	t.Run("dedicated number", func(t *testing.T) {
		consumer := &recordingConsumer{}
		dispatcher := newTestDispatcher(consumer)

		result := dispatcher.Dispatch(context.Background(), query(map[string]string{
			"number": "11111111", "msg": "Hello", "shortnumber": "2012",
		}))

		assert.Equal(t, http.StatusOK, result.Status)
		require.Len(t, consumer.dedicated, 1)
		assert.Equal(t, "2012", consumer.dedicated[0].DedicatedPhoneNumber)
		assert.Equal(t, "11111111", consumer.dedicated[0].SenderPhoneNumber)
	})

	t.Run("missing msg", func(t *testing.T) {
		dispatcher := newTestDispatcher(&recordingConsumer{})

		result := dispatcher.Dispatch(context.Background(), query(map[string]string{
			"number": "11111111", "prefix": "abc",
		}))

		assert.Equal(t, http.StatusBadRequest, result.Status)
		assert.Contains(t, result.Body, "msg")
	})

	t.Run("ambiguous without a discriminator", func(t *testing.T) {
		consumer := &recordingConsumer{}
		dispatcher := newTestDispatcher(consumer)

		result := dispatcher.Dispatch(context.Background(), query(map[string]string{
			"number": "11111111", "msg": "Hello",
		}))

		assert.Equal(t, http.StatusBadRequest, result.Status)
		assert.Contains(t, result.Body, "ambiguous")
		assert.Empty(t, consumer.replies)
		assert.Empty(t, consumer.codeWords)
		assert.Empty(t, consumer.dedicated)
	})
}

func TestDispatch_NoConsumers(t *testing.T) {
	dispatcher := notify.NewDispatcher(nil, nil, nil)

	delivery := dispatcher.Dispatch(context.Background(), query(map[string]string{
		"number": "99999999", "status": "true", "id": "12345",
	}))
	assert.Equal(t, http.StatusInternalServerError, delivery.Status)
	assert.Empty(t, delivery.Body)

	incoming := dispatcher.Dispatch(context.Background(), query(map[string]string{
		"number": "11111111", "msg": "Hello", "prefix": "abc",
	}))
	assert.Equal(t, http.StatusInternalServerError, incoming.Status)
}

func TestDispatch_ConsumerFailureShortCircuits(t *testing.T) {
	failing := &recordingConsumer{err: errors.New("broker unavailable")}
	skipped := &recordingConsumer{}
	dispatcher := notify.NewDispatcher(
		[]notify.DeliveryConsumer{failing, skipped},
		[]notify.MessageConsumer{failing, skipped},
		nil,
	)

	result := dispatcher.Dispatch(context.Background(), query(map[string]string{
		"number": "99999999", "status": "true", "id": "12345",
	}))

	assert.Equal(t, http.StatusInternalServerError, result.Status)
	assert.NotContains(t, result.Body, "broker unavailable")
	assert.Len(t, failing.delivered, 1)
	assert.Empty(t, skipped.delivered)
}
