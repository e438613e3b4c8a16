// Package drill runs one quiz round over a table.
//
// A round starts with every record in the pool. Each cycle draws one record
// uniformly at random from what is left, shows its question column, and grades
// the typed reply against its answer column. A correct reply removes that
// record from the pool; a wrong one leaves it eligible for the next draw. The
// round ends Finished when the pool is empty, or Quit when the user types the
// quit word or input runs out.
package drill

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"

	"github.com/JonMunkholm/portdrill/internal/logging"
	"github.com/JonMunkholm/portdrill/internal/normalize"
	"github.com/JonMunkholm/portdrill/internal/table"
)

// QuitWord ends a round early. Matched case-insensitively.
const QuitWord = "quit"

// State of a round.
type State int

const (
	Active State = iota
	Finished
	Quit
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Finished:
		return "finished"
	case Quit:
		return "quit"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Score counts graded replies. The quit word is never graded.
type Score struct {
	Correct  int
	Attempts int
}

// String renders the score as "correct/attempts".
func (s Score) String() string {
	return fmt.Sprintf("%d/%d", s.Correct, s.Attempts)
}

// Result is the outcome of one round.
type Result struct {
	RoundID uuid.UUID
	State   State
	Score   Score
}

// Terminal is the line-based dialogue a round runs over.
type Terminal interface {
	Prompt(prompt string) (string, error)
	Printf(format string, a ...any)
}

// Markers prefix the feedback line after each graded reply.
type Markers struct {
	Correct string
	Wrong   string
}

var (
	GlyphMarkers = Markers{Correct: "✅", Wrong: "❌"}
	ASCIIMarkers = Markers{Correct: "OK", Wrong: "WRONG"}
)

// Config configures an Engine. Zero values fall back to defaults.
type Config struct {
	Normalizer normalize.Normalizer
	Markers    Markers

	// Rand draws records; nil uses an entropy-seeded source.
	Rand *rand.Rand

	Logger *slog.Logger
}

// Engine grades rounds. It holds no per-round state, so one Engine can run
// any number of rounds back to back.
type Engine struct {
	norm    normalize.Normalizer
	markers Markers
	rng     *rand.Rand
	logger  *slog.Logger
}

// NewEngine builds an Engine from cfg.
func NewEngine(cfg Config) *Engine {
	e := &Engine{
		norm:    cfg.Normalizer,
		markers: cfg.Markers,
		rng:     cfg.Rand,
		logger:  cfg.Logger,
	}
	if e.markers == (Markers{}) {
		e.markers = GlyphMarkers
	}
	if e.rng == nil {
		e.rng = NewRand(0)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// NewRand returns a PCG-backed source. seed 0 means seed from entropy.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
}

// Run plays one round over tbl, showing column q and expecting column a.
// Column indices must already be valid and distinct.
//
// End of input is treated like the quit word. Any other read failure is
// returned alongside the score so far.
func (e *Engine) Run(ctx context.Context, term Terminal, tbl *table.Table, q, a int) (Result, error) {
	res := Result{RoundID: uuid.New(), State: Active}
	qName, aName := tbl.Column(q), tbl.Column(a)

	log := logging.WithFields(e.logger,
		"round_id", res.RoundID,
		"question", qName,
		"answer", aName,
	)

	pool := make([]table.Record, len(tbl.Records))
	copy(pool, tbl.Records)

	log.Info("round started", "pool", len(pool), "normalizer", e.norm.Mode())
	term.Printf("\n=== Drill Started: %s → %s ===\n\n", qName, aName)

	for len(pool) > 0 {
		if err := ctx.Err(); err != nil {
			res.State = Quit
			log.Info("round cancelled", "score", res.Score.String())
			return res, err
		}

		idx := e.rng.IntN(len(pool))
		rec := pool[idx]
		want := rec.Field(a)

		term.Printf("%s: %s\n", qName, rec.Field(q))
		reply, err := term.Prompt("> ")
		if err != nil {
			res.State = Quit
			term.Printf("\nFinal score: %s\n", res.Score)
			if errors.Is(err, io.EOF) {
				log.Info("round ended by end of input", "score", res.Score.String())
				return res, nil
			}
			log.Error("reading answer failed", "error", err)
			return res, fmt.Errorf("read answer: %w", err)
		}

		if strings.EqualFold(reply, QuitWord) {
			res.State = Quit
			term.Printf("Final score: %s\n", res.Score)
			log.Info("round quit", "score", res.Score.String(), "remaining", len(pool))
			return res, nil
		}

		res.Score.Attempts++

		if e.norm.Match(reply, want) {
			res.Score.Correct++
			// Order is irrelevant, so swap-remove this instance.
			last := len(pool) - 1
			pool[idx] = pool[last]
			pool = pool[:last]
			term.Printf("%s Correct!\n\n", e.markers.Correct)
			log.Debug("answer graded", "correct", true, "remaining", len(pool))
			continue
		}

		term.Printf("%s Wrong! Correct answer: %s\n\n", e.markers.Wrong, want)
		log.Debug("answer graded", "correct", false, "remaining", len(pool))
	}

	res.State = Finished
	term.Printf("Round complete! Final score: %s\n\n", res.Score)
	log.Info("round finished", "score", res.Score.String())
	return res, nil
}
