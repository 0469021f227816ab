package node

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/s0up4200/listnode/normalize"
	"github.com/s0up4200/listnode/result"
)

// base carries what every API-backed node shares
type base struct {
	nodeType string
	cfg      Config
	status   StatusFunc
	labels   normalize.Labels
	logger   zerolog.Logger
}

func newBase(d Deps, nodeType string, cfg Config, status StatusFunc, labels normalize.Labels) base {
	return base{
		nodeType: nodeType,
		cfg:      cfg,
		status:   status,
		labels:   labels,
		logger:   d.Logger.With().Str("node", nodeType).Logger(),
	}
}

func (b *base) Type() string {
	return b.nodeType
}

// operation is the work of one input after config and payload are merged
type operation[T any] func(ctx context.Context, in map[string]any) result.Result[T]

// run drives one input through op: pending status, the call, the final
// status, then exactly one send
func run[T any](ctx context.Context, b *base, msg Message, send SendFunc, op operation[T]) {
	b.status(normalize.Pending("requesting"))

	res := op(ctx, inputs(b.cfg, msg.Payload))

	b.status(normalize.Status(res, b.labels))
	finish(b, msg, send, res)
}

// finish writes res into msg and sends it
func finish[T any](b *base, msg Message, send SendFunc, res result.Result[T]) {
	out := msg
	out.Payload = res.Payload()
	out.Error = ""

	if f := res.Failure(); f != nil {
		out.Error = f.Message
		b.logger.Info().Str("kind", f.Kind.String()).Str("error", f.Message).Msg("Node failed")
	} else {
		b.logger.Info().Msg(b.labels.Success)
	}

	send(out)
}

// invalid returns op's failure result without touching the network
func invalid[T any](f *result.Failure) result.Result[T] {
	return result.Err[T](f)
}
