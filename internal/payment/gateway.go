package payment

import "context"

// Gateway is the external payment capability: a single boolean settlement,
// no partial capture.
type Gateway interface {
	ProcessPayment(ctx context.Context, amount float64) (bool, error)
}

// StubGateway approves or declines everything. Stands in for a real
// processor in local runs and tests.
type StubGateway struct {
	Approve bool
	calls   int
}

func NewStubGateway(approve bool) *StubGateway {
	return &StubGateway{Approve: approve}
}

func (g *StubGateway) ProcessPayment(ctx context.Context, amount float64) (bool, error) {
	g.calls++
	return g.Approve, nil
}

// Calls reports how many times the gateway was invoked; used to verify that
// re-processing a completed payment never resubmits.
func (g *StubGateway) Calls() int {
	return g.calls
}
