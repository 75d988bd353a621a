package withdefaults

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/reoring/withdefaults/metrics"
)

// Request holds the retrieval parameters.
type Request struct {
	RootPath string // Schema path of the requested subtree; "" or "/" for everything.
	Mode     Mode   // Zero selects the basic-mode.
}

// Options configures a Retriever.
type Options struct {
	// Capabilities restricts the selectable modes. The zero value uses
	// DefaultCapabilities; any other set must pass Validate.
	Capabilities Capabilities
	// Before and After run around the mode filter, e.g. access control.
	Before []Pruner
	After  []Pruner
	// Logger receives per-request debug logs. The zero value discards them.
	Logger  zerolog.Logger
	Metrics *metrics.Collector
}

// Retriever runs the get-config pipeline: read snapshot, build, classify,
// filter, assemble. It holds no per-request state and is safe for
// concurrent use.
type Retriever struct {
	schema *Registry
	store  Reader
	opt    Options
}

// NewRetriever returns a Retriever over the given schema and datastore. It
// fails when opt.Capabilities is set but invalid.
func NewRetriever(reg *Registry, store Reader, opt Options) (*Retriever, error) {
	caps := opt.Capabilities
	if caps.BasicMode == 0 && len(caps.AlsoSupported) == 0 {
		opt.Capabilities = DefaultCapabilities()
	} else if err := caps.Validate(); err != nil {
		return nil, fmt.Errorf("withdefaults: capabilities: %w", err)
	}
	return &Retriever{schema: reg, store: store, opt: opt}, nil
}

// Capabilities returns the advertised with-defaults capabilities.
func (r *Retriever) Capabilities() Capabilities { return r.opt.Capabilities }

// GetConfig answers one retrieval. Unsupported modes and unknown root paths
// are rejected before the datastore is read. If ctx is canceled the partial
// tree is dropped and ctx.Err() is returned.
func (r *Retriever) GetConfig(ctx context.Context, req Request) (*Reply, error) {
	start := time.Now()
	log := r.opt.Logger.With().
		Str("request_id", uuid.NewString()).
		Str("root", req.RootPath).
		Logger()

	mode, err := r.opt.Capabilities.Resolve(req.Mode)
	if err != nil {
		log.Debug().Err(err).Str("requested_mode", req.Mode.String()).Msg("rejected with-defaults mode")
		r.opt.Metrics.ObserveRetrieval(req.Mode.String(), metrics.OutcomeUnsupportedMode, 0, 0, 0)
		return nil, err
	}
	log = log.With().Str("mode", mode.String()).Logger()

	reply, built, err := r.run(ctx, req.RootPath, mode)
	if err != nil {
		log.Debug().Err(err).Msg("get-config failed")
		r.opt.Metrics.ObserveRetrieval(mode.String(), outcomeOf(err), 0, 0, 0)
		return nil, err
	}
	emitted := countReply(reply.Data)
	log.Debug().
		Int("built", built).
		Int("emitted", emitted).
		Dur("elapsed", time.Since(start)).
		Msg("get-config served")
	r.opt.Metrics.ObserveRetrieval(mode.String(), metrics.OutcomeOK, time.Since(start), built, emitted)
	return reply, nil
}

func (r *Retriever) run(ctx context.Context, rootPath string, mode Mode) (*Reply, int, error) {
	if _, ok := r.schema.Lookup(rootPath); !ok {
		return nil, 0, notFound(rootPath)
	}
	raw, err := r.store.ReadSubtree(ctx, rootPath)
	if err != nil {
		return nil, 0, fmt.Errorf("withdefaults: read datastore: %w", err)
	}
	tree, err := Build(r.schema, rootPath, raw)
	if err != nil {
		return nil, 0, err
	}
	built := tree.Count()
	Classify(tree)

	stages := make([]Pruner, 0, len(r.opt.Before)+1+len(r.opt.After))
	stages = append(stages, r.opt.Before...)
	stages = append(stages, ModeFilter{Mode: mode})
	stages = append(stages, r.opt.After...)
	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		if tree == nil {
			break
		}
		if tree, err = s.Prune(ctx, tree); err != nil {
			return nil, 0, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	return Assemble(tree, mode), built, nil
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, ErrSchemaMismatch):
		return metrics.OutcomeSchemaMismatch
	case errors.Is(err, ErrUnsupportedMode):
		return metrics.OutcomeUnsupportedMode
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.OutcomeCanceled
	default:
		return metrics.OutcomeDatastoreError
	}
}

func countReply(n *ReplyNode) int {
	total := 1
	for _, c := range n.Children {
		total += countReply(c)
	}
	return total
}
