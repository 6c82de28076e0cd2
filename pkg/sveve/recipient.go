package sveve

import (
	"strings"
	"unicode"
)

// RecipientSeparator separates entries in a recipient list.
const RecipientSeparator = ","

// Recipient is a single SMS destination. It is either a normalized phone
// number or a trimmed group name, never a comma-joined list.
type Recipient struct {
	raw        string
	normalized string
	phone      bool
}

// ParseRecipient parses a single recipient token.
func ParseRecipient(token string) (Recipient, error) {
	if strings.TrimSpace(token) == "" {
		return Recipient{}, newValidationError("recipient cannot be empty")
	}

	if strings.Contains(token, RecipientSeparator) {
		return Recipient{}, newValidationError("recipient %q contains multiple recipients", token)
	}

	phone := isPhoneNumber(token)

	normalized := strings.TrimSpace(token)
	if phone {
		normalized = normalizePhoneNumber(token)
	}

	return Recipient{raw: token, normalized: normalized, phone: phone}, nil
}

// ParseRecipients parses a comma-separated list of recipient tokens,
// preserving their order.
func ParseRecipients(list string) ([]Recipient, error) {
	if strings.TrimSpace(list) == "" {
		return nil, newValidationError("recipient list cannot be empty")
	}

	tokens := strings.Split(list, RecipientSeparator)
	recipients := make([]Recipient, 0, len(tokens))
	for _, token := range tokens {
		recipient, err := ParseRecipient(token)
		if err != nil {
			return nil, err
		}
		recipients = append(recipients, recipient)
	}

	return recipients, nil
}

// IsPhoneNumber reports whether the recipient is a phone number rather
// than a group name.
func (r Recipient) IsPhoneNumber() bool {
	return r.phone
}

// String returns the normalized recipient.
func (r Recipient) String() string {
	return r.normalized
}

// Equal reports whether two recipients address the same destination.
// Phone numbers compare by normalized form, so "+47 99 99 99 99",
// "004799999999" and "99999999" are all equal.
func (r Recipient) Equal(other Recipient) bool {
	return r.normalized == other.normalized
}

func isPhoneNumber(value string) bool {
	if strings.TrimSpace(value) == "" {
		return false
	}
	for _, c := range value {
		if c != '+' && c != ' ' && !unicode.IsDigit(c) {
			return false
		}
	}
	return true
}

// normalizePhoneNumber strips spaces, rewrites a leading 00 international
// prefix to + and drops a +47 prefix so that national numbers and their
// internationalized forms compare equal.
func normalizePhoneNumber(value string) string {
	value = strings.ReplaceAll(value, " ", "")
	if strings.HasPrefix(value, "00") {
		value = "+" + value[2:]
	}
	return strings.TrimPrefix(value, "+47")
}
