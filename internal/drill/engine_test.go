package drill

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/JonMunkholm/portdrill/internal/logging"
	"github.com/JonMunkholm/portdrill/internal/normalize"
	"github.com/JonMunkholm/portdrill/internal/table"
)

// scriptedTerm answers each prompt by looking at the question line that
// preceded it. respond returning io.EOF simulates closed input.
type scriptedTerm struct {
	out     strings.Builder
	asked   []string
	respond func(question string) (string, error)
}

func (s *scriptedTerm) Printf(format string, a ...any) {
	fmt.Fprintf(&s.out, format, a...)
}

func (s *scriptedTerm) Prompt(prompt string) (string, error) {
	s.out.WriteString(prompt)
	lines := strings.Split(strings.TrimRight(s.out.String(), "\n> "), "\n")
	question := lines[len(lines)-1]
	s.asked = append(s.asked, question)
	return s.respond(question)
}

// replay feeds fixed lines in order, then EOF.
func replay(lines ...string) func(string) (string, error) {
	i := 0
	return func(string) (string, error) {
		if i >= len(lines) {
			return "", io.EOF
		}
		i++
		return lines[i-1], nil
	}
}

func portsTable() *table.Table {
	return &table.Table{
		Header: []string{"Protocol", "Port", "Name"},
		Records: []table.Record{
			{"SSH", "tcp/22", "Secure Shell"},
			{"FTP", "tcp/20, tcp/21", "File Transfer Protocol"},
			{"DNS", "udp/53", "Domain Name System"},
			{"HTTP", "tcp/80", "Hypertext Transfer Protocol"},
			{"HTTPS", "tcp/443", "HTTP Secure"},
		},
	}
}

func newTestEngine(seed int64, mode normalize.Mode) *Engine {
	return NewEngine(Config{
		Normalizer: normalize.New(mode),
		Markers:    ASCIIMarkers,
		Rand:       NewRand(seed),
		Logger:     logging.Discard(),
	})
}

// answerKey maps "Header: value" question lines to the correct reply.
func answerKey(tbl *table.Table, q, a int) map[string]string {
	key := make(map[string]string, tbl.Len())
	for _, rec := range tbl.Records {
		key[tbl.Column(q)+": "+rec.Field(q)] = rec.Field(a)
	}
	return key
}

func TestRun_AllCorrectConsumesEachRecordOnce(t *testing.T) {
	tbl := portsTable()

	pairs := []struct{ q, a int }{{0, 1}, {1, 0}, {2, 1}, {0, 2}}
	for _, seed := range []int64{1, 7, 99} {
		for _, p := range pairs {
			t.Run(fmt.Sprintf("seed%d_%d_to_%d", seed, p.q, p.a), func(t *testing.T) {
				key := answerKey(tbl, p.q, p.a)
				term := &scriptedTerm{respond: func(q string) (string, error) {
					ans, ok := key[q]
					if !ok {
						return "", fmt.Errorf("unexpected question %q", q)
					}
					return ans, nil
				}}

				res, err := newTestEngine(seed, normalize.Plain).Run(context.Background(), term, tbl, p.q, p.a)
				if err != nil {
					t.Fatalf("Run() error = %v", err)
				}
				if res.State != Finished {
					t.Errorf("State = %s, want finished", res.State)
				}
				n := tbl.Len()
				if res.Score.Correct != n || res.Score.Attempts != n {
					t.Errorf("Score = %s, want %d/%d", res.Score, n, n)
				}

				seen := make(map[string]int)
				for _, q := range term.asked {
					seen[q]++
				}
				for q, count := range seen {
					if count != 1 {
						t.Errorf("%q asked %d times, want once", q, count)
					}
				}
			})
		}
	}
}

func TestRun_SingleRecordExactDialogue(t *testing.T) {
	tbl := &table.Table{
		Header:  []string{"Protocol", "Port"},
		Records: []table.Record{{"SSH", "tcp/22"}},
	}
	term := &scriptedTerm{respond: replay("tcp/22")}

	res, err := newTestEngine(1, normalize.Plain).Run(context.Background(), term, tbl, 0, 1)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.State != Finished || res.Score.String() != "1/1" {
		t.Errorf("Result = %s %s, want finished 1/1", res.State, res.Score)
	}

	want := "\n=== Drill Started: Protocol → Port ===\n\n" +
		"Protocol: SSH\n> " +
		"OK Correct!\n\n" +
		"Round complete! Final score: 1/1\n\n"
	if term.out.String() != want {
		t.Errorf("output =\n%q\nwant\n%q", term.out.String(), want)
	}
}

func TestRun_WrongThenRight(t *testing.T) {
	tbl := &table.Table{
		Header:  []string{"Protocol", "Port"},
		Records: []table.Record{{"SSH", "tcp/22"}},
	}
	term := &scriptedTerm{respond: replay("wrong", "tcp/22")}

	res, err := newTestEngine(1, normalize.Plain).Run(context.Background(), term, tbl, 0, 1)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.State != Finished {
		t.Errorf("State = %s, want finished", res.State)
	}
	if res.Score != (Score{Correct: 1, Attempts: 2}) {
		t.Errorf("Score = %s, want 1/2", res.Score)
	}

	out := term.out.String()
	if !strings.Contains(out, "WRONG Wrong! Correct answer: tcp/22\n") {
		t.Errorf("missing failure line in %q", out)
	}
	if !strings.HasSuffix(out, "Round complete! Final score: 1/2\n\n") {
		t.Errorf("missing completion line in %q", out)
	}
	if len(term.asked) != 2 {
		t.Errorf("asked %d times, want 2", len(term.asked))
	}
}

func TestRun_QuitIsCaseInsensitiveAndUngraded(t *testing.T) {
	for _, word := range []string{"quit", "QUIT", "Quit"} {
		t.Run(word, func(t *testing.T) {
			term := &scriptedTerm{respond: replay("nope", word, "tcp/22")}

			res, err := newTestEngine(3, normalize.Plain).Run(context.Background(), term, portsTable(), 0, 1)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if res.State != Quit {
				t.Errorf("State = %s, want quit", res.State)
			}
			if res.Score != (Score{Correct: 0, Attempts: 1}) {
				t.Errorf("Score = %s, want 0/1", res.Score)
			}
			if !strings.HasSuffix(term.out.String(), "Final score: 0/1\n") {
				t.Errorf("output should end with final score: %q", term.out.String())
			}
			if len(term.asked) != 2 {
				t.Errorf("asked %d times, want 2", len(term.asked))
			}
		})
	}
}

func TestRun_EndOfInputQuits(t *testing.T) {
	key := answerKey(portsTable(), 0, 1)
	answered := 0
	term := &scriptedTerm{respond: func(q string) (string, error) {
		if answered == 2 {
			return "", io.EOF
		}
		answered++
		return key[q], nil
	}}

	res, err := newTestEngine(5, normalize.Plain).Run(context.Background(), term, portsTable(), 0, 1)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.State != Quit || res.Score.String() != "2/2" {
		t.Errorf("Result = %s %s, want quit 2/2", res.State, res.Score)
	}
}

func TestRun_ReadErrorIsReturned(t *testing.T) {
	boom := errors.New("terminal detached")
	term := &scriptedTerm{respond: func(string) (string, error) { return "", boom }}

	res, err := newTestEngine(5, normalize.Plain).Run(context.Background(), term, portsTable(), 0, 1)
	if !errors.Is(err, boom) {
		t.Fatalf("Run() error = %v, want %v", err, boom)
	}
	if res.State != Quit {
		t.Errorf("State = %s, want quit", res.State)
	}
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	term := &scriptedTerm{respond: replay()}
	res, err := newTestEngine(5, normalize.Plain).Run(ctx, term, portsTable(), 0, 1)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if res.State != Quit || len(term.asked) != 0 {
		t.Errorf("Result = %s, asked %d; want quit before any question", res.State, len(term.asked))
	}
}

func TestRun_WrongAnswersKeepRecordEligible(t *testing.T) {
	tbl := &table.Table{
		Header:  []string{"Protocol", "Port"},
		Records: []table.Record{{"SSH", "tcp/22"}},
	}
	term := &scriptedTerm{respond: replay("21", "23", "ssh", "tcp/22")}

	res, err := newTestEngine(9, normalize.Plain).Run(context.Background(), term, tbl, 0, 1)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Score != (Score{Correct: 1, Attempts: 4}) {
		t.Errorf("Score = %s, want 1/4", res.Score)
	}
	for _, q := range term.asked {
		if q != "Protocol: SSH" {
			t.Errorf("asked %q, want the single record every time", q)
		}
	}
}

func TestRun_DuplicateRecordsEachNeedAnAnswer(t *testing.T) {
	tbl := &table.Table{
		Header:  []string{"Protocol", "Port"},
		Records: []table.Record{{"SSH", "tcp/22"}, {"SSH", "tcp/22"}},
	}
	term := &scriptedTerm{respond: replay("tcp/22", "tcp/22", "tcp/22")}

	res, err := newTestEngine(2, normalize.Plain).Run(context.Background(), term, tbl, 0, 1)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.State != Finished || res.Score.String() != "2/2" {
		t.Errorf("Result = %s %s, want finished 2/2", res.State, res.Score)
	}
}

func TestRun_HeaderOnlyFinishesImmediately(t *testing.T) {
	tbl := &table.Table{Header: []string{"Protocol", "Port"}}
	term := &scriptedTerm{respond: replay()}

	res, err := newTestEngine(2, normalize.Plain).Run(context.Background(), term, tbl, 0, 1)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.State != Finished || res.Score.String() != "0/0" {
		t.Errorf("Result = %s %s, want finished 0/0", res.State, res.Score)
	}
}

func TestRun_RaggedRecordAnswersEmpty(t *testing.T) {
	tbl := &table.Table{
		Header:  []string{"Protocol", "Port", "Name"},
		Records: []table.Record{{"SSH", "tcp/22"}},
	}
	term := &scriptedTerm{respond: replay("Secure Shell", "")}

	res, err := newTestEngine(2, normalize.Plain).Run(context.Background(), term, tbl, 0, 2)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Score.String() != "1/2" {
		t.Errorf("Score = %s, want 1/2", res.Score)
	}
}

func TestRun_PrefixStrippingNormalizer(t *testing.T) {
	tbl := &table.Table{
		Header:  []string{"Protocol", "Port"},
		Records: []table.Record{{"FTP", "tcp/20, tcp/21"}},
	}
	term := &scriptedTerm{respond: replay("20,21")}

	res, err := newTestEngine(2, normalize.PrefixStripping).Run(context.Background(), term, tbl, 0, 1)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Score.String() != "1/1" {
		t.Errorf("Score = %s, want 1/1", res.Score)
	}
}

func TestRun_SameSeedSameOrder(t *testing.T) {
	order := func() []string {
		key := answerKey(portsTable(), 0, 1)
		term := &scriptedTerm{respond: func(q string) (string, error) { return key[q], nil }}
		if _, err := newTestEngine(42, normalize.Plain).Run(context.Background(), term, portsTable(), 0, 1); err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		return term.asked
	}

	first, second := order(), order()
	if strings.Join(first, "|") != strings.Join(second, "|") {
		t.Errorf("orders differ:\n%v\n%v", first, second)
	}
}

func TestRun_RoundIDsAreUnique(t *testing.T) {
	e := newTestEngine(1, normalize.Plain)
	tbl := &table.Table{Header: []string{"Protocol", "Port"}}

	r1, _ := e.Run(context.Background(), &scriptedTerm{respond: replay()}, tbl, 0, 1)
	r2, _ := e.Run(context.Background(), &scriptedTerm{respond: replay()}, tbl, 0, 1)
	if r1.RoundID == r2.RoundID {
		t.Error("two rounds share a RoundID")
	}
}

func TestNewEngine_Defaults(t *testing.T) {
	e := NewEngine(Config{})
	if e.markers != GlyphMarkers {
		t.Errorf("markers = %+v, want glyphs", e.markers)
	}
	if e.rng == nil || e.logger == nil {
		t.Error("NewEngine left rng or logger nil")
	}
	if e.norm.Mode() != normalize.Plain {
		t.Errorf("normalizer = %s, want plain", e.norm.Mode())
	}
}

func TestScoreAndStateStrings(t *testing.T) {
	if got := (Score{Correct: 3, Attempts: 5}).String(); got != "3/5" {
		t.Errorf("Score.String() = %q", got)
	}
	for s, want := range map[State]string{Active: "active", Finished: "finished", Quit: "quit"} {
		if s.String() != want {
			t.Errorf("State(%d).String() = %q, want %q", int(s), s.String(), want)
		}
	}
}
