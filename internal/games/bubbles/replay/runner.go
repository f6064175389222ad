package replay

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/hexbubble/internal/config"
	"github.com/vovakirdan/hexbubble/internal/core"
	"github.com/vovakirdan/hexbubble/internal/games/bubbles"
	"github.com/vovakirdan/hexbubble/internal/games/bubbles/cascade"
	"github.com/vovakirdan/hexbubble/internal/games/bubbles/hexgrid"
	"github.com/vovakirdan/hexbubble/internal/games/bubbles/levels"
	"github.com/vovakirdan/hexbubble/internal/games/bubbles/pool"
)

// EventKind identifies a logged cascade event.
type EventKind string

const (
	EventDestroy EventKind = "destroy"
	EventDrop    EventKind = "drop"
	EventFairy   EventKind = "fairy"
	EventRefill  EventKind = "refill"
	EventOutcome EventKind = "outcome"
)

// Event is one entry of the replay log.
type Event struct {
	Step     int // 1-based
	Kind     EventKind
	Cell     hexgrid.Cell
	Type     hexgrid.BubbleType
	Attacker hexgrid.BubbleType
	Pos      core.Vec2
	Outcome  cascade.Outcome
}

func (e Event) String() string {
	switch e.Kind {
	case EventDestroy:
		return fmt.Sprintf("#%d destroy %v %s by %s", e.Step, e.Cell, e.Type, e.Attacker)
	case EventDrop:
		return fmt.Sprintf("#%d drop %v %s", e.Step, e.Cell, e.Type)
	case EventFairy:
		return fmt.Sprintf("#%d fairy at %v", e.Step, e.Pos)
	case EventOutcome:
		return fmt.Sprintf("#%d outcome %s", e.Step, e.Outcome)
	default:
		return fmt.Sprintf("#%d %s", e.Step, e.Kind)
	}
}

// StepResult summarizes one placement.
type StepResult struct {
	Step   int
	Cell   hexgrid.Cell
	Type   hexgrid.BubbleType
	Report cascade.Report
	Score  int
}

// Result is the outcome of a whole script.
type Result struct {
	Name      string
	Steps     []StepResult
	Events    []Event
	Board     string
	Hash      uint64
	Remaining int
	Score     int
	BestCombo int
}

// Outcomes returns the outcome of every step in order.
func (r Result) Outcomes() []string {
	out := make([]string, len(r.Steps))
	for i, s := range r.Steps {
		out[i] = s.Report.Outcome.String()
	}
	return out
}

// Options configures a run.
type Options struct {
	// Levels resolves Script.Level. Defaults to the built-in set.
	Levels  *levels.Loader
	Scoring config.ScoringConfig
	Logger  *log.Logger
}

// recorder is the Presenter and Spawner of a replay. It appends to the
// event log of the current step.
type recorder struct {
	step   int
	events []Event
}

func (r *recorder) OnBubbleDestroyed(b *hexgrid.Bubble, attacker hexgrid.BubbleType) {
	c, _ := b.Cell()
	r.events = append(r.events, Event{Step: r.step, Kind: EventDestroy, Cell: c, Type: b.Type, Attacker: attacker})
}

func (r *recorder) OnSpecialMarkerSpawned(pos core.Vec2) {
	r.events = append(r.events, Event{Step: r.step, Kind: EventFairy, Pos: pos})
}

func (r *recorder) OnFloatingDropStarted(b *hexgrid.Bubble) {
	c, _ := b.Cell()
	r.events = append(r.events, Event{Step: r.step, Kind: EventDrop, Cell: c, Type: b.Type})
}

func (r *recorder) OnBubblesDestroyed() {
	r.events = append(r.events, Event{Step: r.step, Kind: EventRefill})
}

// Run plays a script with zero cascade delays.
func Run(s Script, opts Options) (Result, error) {
	if opts.Levels == nil {
		opts.Levels = levels.Builtin()
	}
	if opts.Scoring == (config.ScoringConfig{}) {
		opts.Scoring = config.DefaultBubblesConfig().Scoring
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	lvl, err := startLevel(s, opts.Levels)
	if err != nil {
		return Result{}, err
	}

	g := hexgrid.New(lvl.Rows, lvl.Cols, hexgrid.DefaultLayout())
	p := pool.New(lvl.Rows * lvl.Cols)
	lvl.Populate(g, p)

	rec := &recorder{}
	session := bubbles.NewSession(opts.Scoring)
	cfg := cascade.DefaultConfig()
	if s.Rules.MatchThreshold > 0 {
		cfg.MatchThreshold = s.Rules.MatchThreshold
	}
	if s.Rules.NeroRadius > 0 {
		cfg.NeroRadius = s.Rules.NeroRadius
	}
	res := cascade.New(g, cascade.Deps{
		Pool:      p,
		Presenter: rec,
		Scorer:    session,
		Spawner:   rec,
		Logger:    logger,
	}, cfg)

	out := Result{Name: s.Name}
	for i, st := range s.Steps {
		rec.step = i + 1
		t, ok := hexgrid.ParseBubbleType(st.Type)
		if !ok {
			return Result{}, fmt.Errorf("step %d: unknown bubble type %q", i+1, st.Type)
		}
		if !g.IsValidCell(st.Row, st.Col) {
			return Result{}, fmt.Errorf("step %d: cell %v outside %dx%d board", i+1, hexgrid.C(st.Row, st.Col), g.Rows(), g.Cols())
		}
		if !g.IsEmpty(st.Row, st.Col) {
			return Result{}, fmt.Errorf("step %d: cell %v occupied", i+1, hexgrid.C(st.Row, st.Col))
		}

		if len(st.Targets) > 0 {
			targets := make([]core.Vec2, len(st.Targets))
			for j, tg := range st.Targets {
				targets[j] = g.ToWorld(tg.Row, tg.Col)
			}
			res.SetPendingTargets(targets)
		}

		b := p.Acquire(t)
		b.Fairy = st.Fairy
		g.Register(st.Row, st.Col, b, true)
		res.Drain()
		res.ClearPendingTargets()

		report := res.LastReport()
		rec.events = append(rec.events, Event{Step: i + 1, Kind: EventOutcome, Cell: report.Seed, Type: t, Outcome: report.Outcome})
		out.Steps = append(out.Steps, StepResult{
			Step:   i + 1,
			Cell:   hexgrid.C(st.Row, st.Col),
			Type:   t,
			Report: report,
			Score:  session.Score,
		})
		logger.Debug("replay step", "step", i+1, "cell", hexgrid.C(st.Row, st.Col), "type", t, "outcome", report.Outcome)
	}

	out.Events = rec.events
	out.Board = g.String()
	out.Hash = g.Hash()
	out.Remaining = g.Count()
	out.Score = session.Score
	out.BestCombo = session.BestCombo
	return out, nil
}

func startLevel(s Script, loader *levels.Loader) (levels.Level, error) {
	if s.Level != "" {
		lvl, err := loader.LoadByID(s.Level)
		if err != nil {
			return levels.Level{}, fmt.Errorf("script %q: %w", s.Name, err)
		}
		return lvl, nil
	}

	parsed, err := s.Board.Level()
	if err != nil {
		return levels.Level{}, fmt.Errorf("script %q board: %w", s.Name, err)
	}
	lvl := levels.FromFormat(parsed)
	if err := levels.Validate(lvl); err != nil {
		return levels.Level{}, fmt.Errorf("script %q board: %w", s.Name, err)
	}
	return lvl, nil
}

// Verify checks a result against the script's expectations. It returns
// nil when the script has none.
func Verify(r Result, exp *Expect) error {
	if exp == nil {
		return nil
	}
	var errs []error
	if len(exp.Outcomes) > 0 {
		got := r.Outcomes()
		if strings.Join(got, ",") != strings.Join(exp.Outcomes, ",") {
			errs = append(errs, fmt.Errorf("outcomes = %v, want %v", got, exp.Outcomes))
		}
	}
	if exp.Remaining != nil && *exp.Remaining != r.Remaining {
		errs = append(errs, fmt.Errorf("remaining = %d, want %d", r.Remaining, *exp.Remaining))
	}
	if exp.Score != nil && *exp.Score != r.Score {
		errs = append(errs, fmt.Errorf("score = %d, want %d", r.Score, *exp.Score))
	}
	if len(exp.Board) > 0 {
		if got, want := normalizeBoard(strings.Split(r.Board, "\n")), normalizeBoard(exp.Board); got != want {
			errs = append(errs, fmt.Errorf("board =\n%s\nwant\n%s", got, want))
		}
	}
	return errors.Join(errs...)
}

// normalizeBoard drops indentation and spacing so hand-written boards
// compare equal to Grid.String output.
func normalizeBoard(rows []string) string {
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, strings.Join(strings.Fields(row), ""))
	}
	return strings.Join(out, "\n")
}
