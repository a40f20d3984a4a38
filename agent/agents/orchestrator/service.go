package orchestrator

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Schedule-Assistant/agent/contract"
	dialoguex "github.com/tanpawarit/Chative-Schedule-Assistant/agent/dialogue"
	intentx "github.com/tanpawarit/Chative-Schedule-Assistant/agent/intent"
	nodex "github.com/tanpawarit/Chative-Schedule-Assistant/agent/nodes"
	replyx "github.com/tanpawarit/Chative-Schedule-Assistant/agent/reply"
	statex "github.com/tanpawarit/Chative-Schedule-Assistant/agent/state"
)

var (
	ErrInvalidMessage = nodex.ErrInvalidMessage
	ErrInvalidSession = nodex.ErrInvalidSession
)

type Config struct {
	// SerializeTurns runs at most one turn per owner at a time. When false,
	// concurrent messages from one owner race on the stored state and the
	// last write wins.
	SerializeTurns bool
}

type Orchestrator struct {
	store      statex.Store
	engine     *dialoguex.Engine
	classifier *intentx.Classifier
	formatter  *replyx.Formatter
	recorder   contractx.Recorder

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]
	turns       *turnLocks

	now func() time.Time
}

func New(
	store statex.Store,
	engine *dialoguex.Engine,
	classifier *intentx.Classifier,
	formatter *replyx.Formatter,
	recorder contractx.Recorder,
	cfg Config,
) (*Orchestrator, error) {
	if store == nil {
		return nil, errors.New("state store is required")
	}
	if engine == nil {
		return nil, errors.New("dialogue engine is required")
	}
	if classifier == nil {
		classifier = intentx.NewClassifier()
	}
	if formatter == nil {
		formatter = replyx.NewFormatter(replyx.Japanese)
	}
	if recorder == nil {
		recorder = contractx.NoopRecorder{}
	}

	o := &Orchestrator{
		store:      store,
		engine:     engine,
		classifier: classifier,
		formatter:  formatter,
		recorder:   recorder,
		now:        time.Now,
	}
	if cfg.SerializeTurns {
		o.turns = newTurnLocks()
	}

	graphRunner, err := o.compileHandleMessageGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// HandleMessage runs one turn for ownerID and returns the reply text. An empty
// reply means the message was not understood and nothing should be sent.
// Store failures are recovered into a reply; only invalid input or a broken
// pipeline is returned as an error.
func (o *Orchestrator) HandleMessage(ctx context.Context, ownerID string, text string) (string, error) {
	if o.turns != nil {
		unlock := o.turns.lock(strings.TrimSpace(ownerID))
		defer unlock()
	}

	start := time.Now()
	out, err := o.graphRunner.Invoke(ctx, nodex.GraphInput{
		OwnerID: ownerID,
		Text:    text,
	})
	if err != nil {
		return "", err
	}

	o.recorder.ObserveTurn(string(out.Intent), string(out.ReplyKind), time.Since(start))
	if out.TurnErr != nil {
		o.recorder.IncStoreError(string(out.Intent))
		log.Error().
			Err(out.TurnErr).
			Str("owner_id", ownerID).
			Str("intent", string(out.Intent)).
			Msg("turn recovered from store failure")
	} else {
		log.Debug().
			Str("owner_id", ownerID).
			Str("intent", string(out.Intent)).
			Str("reply_kind", string(out.ReplyKind)).
			Msg("turn handled")
	}

	return out.Reply, nil
}
