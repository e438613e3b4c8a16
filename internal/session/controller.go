// Package session ties the drill together: it asks which columns to quiz on,
// runs a round, and offers another until the user declines.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/JonMunkholm/portdrill/internal/drill"
	"github.com/JonMunkholm/portdrill/internal/table"
)

// ErrTooFewColumns means no distinct question/answer pair exists.
var ErrTooFewColumns = errors.New("need at least two columns to run a drill")

// NoColumn is passed to ChooseColumn when no index is excluded.
const NoColumn = -1

// Terminal is the line-based dialogue the session runs over.
type Terminal interface {
	Prompt(prompt string) (string, error)
	Printf(format string, a ...any)
	Println(a ...any)
}

// Config wires a Controller.
type Config struct {
	Table     *table.Table
	Terminal  Terminal
	Engine    *drill.Engine
	Logger    *slog.Logger
	ShowIntro bool
}

// Controller owns the replay loop. It never mutates the table.
type Controller struct {
	tbl       *table.Table
	term      Terminal
	engine    *drill.Engine
	logger    *slog.Logger
	showIntro bool
}

// NewController builds a Controller from cfg.
func NewController(cfg Config) *Controller {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	engine := cfg.Engine
	if engine == nil {
		engine = drill.NewEngine(drill.Config{Logger: logger})
	}
	return &Controller{
		tbl:       cfg.Table,
		term:      cfg.Terminal,
		engine:    engine,
		logger:    logger,
		showIntro: cfg.ShowIntro,
	}
}

// Run loops column selection, one round, and the replay question until the
// user declines or input ends. Running out of input is a normal exit.
func (c *Controller) Run(ctx context.Context) error {
	if c.tbl.Columns() < 2 {
		c.term.Println("Need at least two columns to run a drill.")
		return ErrTooFewColumns
	}

	if c.showIntro {
		c.term.Printf("%s", introText)
	}

	rounds := 0
	defer func() {
		c.logger.Info("session ended", "rounds", rounds)
	}()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		q, err := c.ChooseColumn("Choose the QUESTION column:", NoColumn)
		if err != nil {
			return endOfInput(err)
		}
		a, err := c.ChooseColumn("Choose the ANSWER column (not the same):", q)
		if err != nil {
			return endOfInput(err)
		}

		res, err := c.engine.Run(ctx, c.term, c.tbl, q, a)
		rounds++
		if err != nil {
			return fmt.Errorf("round %s: %w", res.RoundID, err)
		}

		again, err := c.term.Prompt("Play another round? (y/n): ")
		if err != nil {
			return endOfInput(err)
		}
		if !wantsAnother(again) {
			return nil
		}
	}
}

// ChooseColumn lists the header under title and reads a 1-based column number
// until it is numeric, in range, and not exclude. It returns the 0-based index.
// There is no quit path here; only end of input stops it.
func (c *Controller) ChooseColumn(title string, exclude int) (int, error) {
	c.term.Println(title)
	for i, name := range c.tbl.Header {
		c.term.Printf("%d. %s\n", i+1, name)
	}

	for {
		input, err := c.term.Prompt("> ")
		if err != nil {
			return NoColumn, err
		}

		n, convErr := strconv.Atoi(input)
		if convErr == nil && n >= 1 && n <= c.tbl.Columns() && n-1 != exclude {
			return n - 1, nil
		}

		c.logger.Debug("invalid column selection", "input", input, "exclude", exclude+1)
		c.term.Println("Invalid selection.")
	}
}

func wantsAnother(reply string) bool {
	switch strings.ToLower(strings.TrimSpace(reply)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
