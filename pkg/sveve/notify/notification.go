// Package notify classifies inbound callbacks from the SMS API and fans
// them out to registered consumers.
package notify

// OutgoingSms identifies a previously sent SMS in a delivery report.
type OutgoingSms struct {
	// ReceiverPhoneNumber is the phone number the SMS was sent to.
	ReceiverPhoneNumber string

	// MessageID is the ID assigned when the SMS was sent.
	MessageID int

	// Reference is the caller-supplied reference, if any.
	Reference string
}

// DeliveryError describes why a delivery failed.
type DeliveryError struct {
	Code        string
	Description string
}

// ReplySms is an incoming SMS replying to an earlier outgoing SMS.
type ReplySms struct {
	// SenderPhoneNumber is the phone number that sent the reply.
	SenderPhoneNumber string

	// MessageID references the message being replied to.
	MessageID int

	// Message is the text of the reply.
	Message string
}

// CodeWordSms is an incoming SMS that matched a configured code word.
type CodeWordSms struct {
	CodeWord          string
	SenderPhoneNumber string
	Message           string

	// SenderName and SenderAddress are looked up by the API and may be
	// empty.
	SenderName    string
	SenderAddress string
}

// DedicatedNumberSms is an incoming SMS to a dedicated phone number.
type DedicatedNumberSms struct {
	DedicatedPhoneNumber string
	SenderPhoneNumber    string
	Message              string
	SenderName           string
	SenderAddress        string
}
