package sveve

import (
	"fmt"
	"time"
)

// Message is a single outgoing SMS. To may list several phone numbers or
// group names separated by commas.
type Message struct {
	// To is a comma-separated list of phone numbers and group names.
	To string

	// Text is the message body.
	Text string

	// Sender overrides the client's default sender name.
	Sender string

	// ReplyAllowed lets the receiver reply. The sender name is replaced
	// by a generated phone number when set.
	ReplyAllowed bool

	// ReplyTo references an earlier message ID so the reply lands in the
	// same thread on the receiver's phone. Zero means no reference.
	ReplyTo int

	// SendTime schedules the message. The zero value sends immediately.
	SendTime time.Time

	// Reference is echoed back in delivery reports.
	Reference string

	// Repeat resends the message on a schedule. Nil means send once.
	Repeat *Repeat

	// Test makes the API accept the message without delivering it.
	Test bool
}

const (
	repeatUnitHour  = 11
	repeatUnitDay   = 5
	repeatUnitWeek  = 99
	repeatUnitMonth = 2
)

// Repeat describes how a message reoccurs. Construct one with
// RepeatHourly, RepeatDaily, RepeatWeekly or RepeatMonthly and add an
// optional stop condition with Times or Until.
type Repeat struct {
	unit  int
	every int
	times int
	until time.Time
}

// RepeatHourly repeats the message every given number of hours.
func RepeatHourly(hours int) *Repeat { return &Repeat{unit: repeatUnitHour, every: hours} }

// RepeatDaily repeats the message every given number of days.
func RepeatDaily(days int) *Repeat { return &Repeat{unit: repeatUnitDay, every: days} }

// RepeatWeekly repeats the message every given number of weeks.
func RepeatWeekly(weeks int) *Repeat { return &Repeat{unit: repeatUnitWeek, every: weeks} }

// RepeatMonthly repeats the message every given number of months.
func RepeatMonthly(months int) *Repeat { return &Repeat{unit: repeatUnitMonth, every: months} }

// Times stops the repetition after the message has been sent count times.
// It replaces any earlier stop condition.
func (r *Repeat) Times(count int) *Repeat {
	return &Repeat{unit: r.unit, every: r.every, times: count}
}

// Until stops the repetition after the given date. It replaces any
// earlier stop condition.
func (r *Repeat) Until(date time.Time) *Repeat {
	return &Repeat{unit: r.unit, every: r.every, until: date}
}

func (r *Repeat) validate() error {
	if r.every < 1 {
		return newValidationError("repeat interval must be at least 1")
	}
	if r.times < 0 {
		return newValidationError("repeat count cannot be negative")
	}
	return nil
}

func (r *Repeat) encode(dto *smsDTO) {
	dto.Reoccurrence = fmt.Sprintf("%d|%d", r.every, r.unit)

	switch {
	case r.times > 0:
		dto.ReoccurrenceEnds = "after"
		dto.EndsAfter = r.times
	case !r.until.IsZero():
		dto.ReoccurrenceEnds = "on"
		dto.EndsOn = r.until.Format("02.01.2006")
	default:
		dto.ReoccurrenceEnds = "never"
	}
}
