package sveve

import (
	"context"
	"strconv"
	"strings"
)

// OrderSize is one of the SMS-unit bulk sizes the API sells. Larger
// bulks are cheaper per unit.
type OrderSize struct {
	units int
}

// Units returns the number of SMS units in the order.
func (o OrderSize) Units() int {
	return o.units
}

var (
	Order500    = OrderSize{units: 500}
	Order2000   = OrderSize{units: 2_000}
	Order5000   = OrderSize{units: 5_000}
	Order10000  = OrderSize{units: 10_000}
	Order25000  = OrderSize{units: 25_000}
	Order50000  = OrderSize{units: 50_000}
	Order100000 = OrderSize{units: 100_000}
)

// RemainingUnits returns the number of SMS units left on the account.
func (c *Client) RemainingUnits(ctx context.Context) (int, error) {
	reply, err := c.invokeCommand(ctx, adminEndpoint, "sms_count", nil)
	if err != nil {
		return 0, err
	}

	count, err := strconv.Atoi(strings.TrimSpace(reply))
	if err != nil {
		return 0, NewError(ErrCodeCommandRejected, err)
	}

	return count, nil
}

// OrderUnits buys additional SMS units. This places a real order that
// costs real money.
func (c *Client) OrderUnits(ctx context.Context, order OrderSize) error {
	if order.units <= 0 {
		return newValidationError("order size is required")
	}
	_, err := c.invokeCommand(ctx, adminEndpoint, "order_sms", map[string]string{"count": strconv.Itoa(order.units)})
	return err
}
