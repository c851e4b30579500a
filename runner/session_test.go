package runner

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/mock/gomock"

	"github.com/smolchat/smolchat/api"
	"github.com/smolchat/smolchat/engine"
	"github.com/smolchat/smolchat/engine/bytegram"
)

const tokEOG = 1000

// fakeEngine liefert vorgegebene Token und zaehlt KV-Zellen
type fakeEngine struct {
	size      int
	cells     int
	samples   []int
	pieces    map[int][]byte
	decodeErr error
	tokErr    error
	delay     time.Duration

	prompts []string
	bos     []bool
	decodes int
	clears  int
}

func (f *fakeEngine) Tokenize(text string, addBOS, special bool) ([]int, error) {
	f.prompts = append(f.prompts, text)
	f.bos = append(f.bos, addBOS)
	if f.tokErr != nil {
		return nil, f.tokErr
	}

	tokens := make([]int, 0, len(text))
	for i := range len(text) {
		tokens = append(tokens, int(text[i]))
	}
	return tokens, nil
}

func (f *fakeEngine) Decode(b *engine.Batch) error {
	if f.decodeErr != nil {
		return f.decodeErr
	}
	time.Sleep(f.delay)
	f.decodes++
	f.cells += b.NumTokens()
	return nil
}

func (f *fakeEngine) Sample() int {
	if len(f.samples) == 0 {
		return tokEOG
	}
	t := f.samples[0]
	f.samples = f.samples[1:]
	return t
}

func (f *fakeEngine) TokenToPiece(token int) []byte { return f.pieces[token] }
func (f *fakeEngine) TokenIsEog(token int) bool     { return token == tokEOG }
func (f *fakeEngine) ContextCellsUsed() int         { return f.cells }
func (f *fakeEngine) ContextSize() int              { return f.size }
func (f *fakeEngine) ChatTemplate() string          { return "" }
func (f *fakeEngine) Info() engine.ModelInfo        { return engine.ModelInfo{} }
func (f *fakeEngine) Close() error                  { return nil }

func (f *fakeEngine) ClearMemory() {
	f.cells = 0
	f.clears++
}

func newFake(samples ...int) *fakeEngine {
	return &fakeEngine{
		size:    4096,
		samples: samples,
		pieces: map[int][]byte{
			1: []byte("Hel"),
			2: []byte("lo"),
			3: {0xE4, 0xB8},
			4: {0xAD},
			5: []byte("!"),
		},
	}
}

func load(t *testing.T, e engine.Engine, storeChats bool) *Session {
	t.Helper()

	s, err := Load(engine.NewHandle(e), api.Options{StoreChats: storeChats})
	if err != nil {
		t.Fatalf("Load() Fehler: %v", err)
	}
	return s
}

// steps ruft Step bis EOG oder Fehler auf und sammelt die Ausgaben
func steps(t *testing.T, s *Session) []string {
	t.Helper()

	var out []string
	for range 100 {
		piece, err := s.Step()
		if err != nil {
			t.Fatalf("Step() Fehler: %v", err)
		}
		out = append(out, piece)
		if piece == EOGMarker {
			return out
		}
	}
	t.Fatal("kein EOG nach 100 Schritten")
	return nil
}

func TestEndOfGenerationOnFirstSample(t *testing.T) {
	s := load(t, newFake(), true)

	if err := s.StartCompletion("hi"); err != nil {
		t.Fatal(err)
	}
	if s.State() != StatePromptSubmitted {
		t.Errorf("State() = %s, erwartet %s", s.State(), StatePromptSubmitted)
	}

	piece, err := s.Step()
	if err != nil {
		t.Fatal(err)
	}
	if piece != EOGMarker {
		t.Errorf("Step() = %q, erwartet %q", piece, EOGMarker)
	}

	want := []api.Message{
		{Role: api.RoleUser, Content: "hi"},
		{Role: api.RoleAssistant, Content: ""},
	}
	if diff := cmp.Diff(want, s.History()); diff != "" {
		t.Errorf("History() mismatch (-want +got):\n%s", diff)
	}
	if s.TokensPerSecond() != 0 {
		t.Errorf("TokensPerSecond() = %v, erwartet 0", s.TokensPerSecond())
	}

	s.StopCompletion()
	if diff := cmp.Diff(want, s.History()); diff != "" {
		t.Errorf("StopCompletion nach EOG hat History veraendert (-want +got):\n%s", diff)
	}
}

func TestSplitCodepoint(t *testing.T) {
	s := load(t, newFake(3, 4), true)

	if err := s.StartCompletion("x"); err != nil {
		t.Fatal(err)
	}

	got := steps(t, s)
	if diff := cmp.Diff([]string{"", "中", EOGMarker}, got); diff != "" {
		t.Errorf("Ausgaben mismatch (-want +got):\n%s", diff)
	}

	h := s.History()
	if last := h[len(h)-1]; last.Content != "中" {
		t.Errorf("Antwort = %q, erwartet %q", last.Content, "中")
	}
}

func TestStopPersistsPartialResponse(t *testing.T) {
	s := load(t, newFake(1, 2, 3, 5), true)

	if err := s.StartCompletion("sag hallo"); err != nil {
		t.Fatal(err)
	}

	// "Hel", "lo", dann ein halbes Zeichen
	for _, want := range []string{"Hel", "lo", ""} {
		got, err := s.Step()
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("Step() = %q, erwartet %q", got, want)
		}
	}

	s.StopCompletion()

	want := []api.Message{
		{Role: api.RoleUser, Content: "sag hallo"},
		{Role: api.RoleAssistant, Content: "Hello"},
	}
	if diff := cmp.Diff(want, s.History()); diff != "" {
		t.Errorf("History() mismatch (-want +got):\n%s", diff)
	}
	if s.State() != StateIdle {
		t.Errorf("State() = %s, erwartet idle", s.State())
	}

	// StopCompletion in Idle aendert nichts
	s.StopCompletion()
	if diff := cmp.Diff(want, s.History()); diff != "" {
		t.Errorf("zweites StopCompletion hat History veraendert (-want +got):\n%s", diff)
	}
}

func TestNoHistoryLeakWithoutPersistence(t *testing.T) {
	f := newFake(1, tokEOG, 2)
	s := load(t, f, false)

	if err := s.StartCompletion("erste Frage"); err != nil {
		t.Fatal(err)
	}
	steps(t, s)
	if len(s.History()) != 1 {
		t.Errorf("History() nach EOG ohne Persistenz = %v, erwartet nur die Frage", s.History())
	}
	s.StopCompletion()
	if len(s.History()) != 0 {
		t.Errorf("History() nach StopCompletion = %v, erwartet leer", s.History())
	}

	if err := s.StartCompletion("zweite Frage"); err != nil {
		t.Fatal(err)
	}
	steps(t, s)
	s.StopCompletion()

	if len(f.prompts) != 2 {
		t.Fatalf("%d Prompts tokenisiert, erwartet 2", len(f.prompts))
	}
	if strings.Contains(f.prompts[1], "erste") || strings.Contains(f.prompts[1], "Hel") {
		t.Errorf("zweiter Prompt enthaelt alten Turn: %q", f.prompts[1])
	}
	if want := "<|im_start|>user\nzweite Frage<|im_end|>\n<|im_start|>assistant\n"; f.prompts[1] != want {
		t.Errorf("zweiter Prompt = %q, erwartet %q", f.prompts[1], want)
	}
	if f.clears != 2 {
		t.Errorf("ClearMemory() %d mal aufgerufen, erwartet 2", f.clears)
	}
	if !f.bos[0] || !f.bos[1] {
		t.Error("ohne Persistenz sollte jeder Prompt mit BOS beginnen")
	}
}

func TestIncrementalPromptWithPersistence(t *testing.T) {
	f := newFake(1, 2, tokEOG, 5, tokEOG)
	s := load(t, f, true)

	if err := s.StartCompletion("eins"); err != nil {
		t.Fatal(err)
	}
	steps(t, s)
	s.StopCompletion()

	if err := s.StartCompletion("zwei"); err != nil {
		t.Fatal(err)
	}
	steps(t, s)
	s.StopCompletion()

	want := "<|im_end|>\n<|im_start|>user\nzwei<|im_end|>\n<|im_start|>assistant\n"
	if f.prompts[1] != want {
		t.Errorf("zweiter Prompt = %q, erwartet %q", f.prompts[1], want)
	}
	if f.bos[1] {
		t.Error("zweiter Prompt sollte ohne BOS tokenisiert werden")
	}

	// Gesamte an die Engine gegebene Eingabe entspricht der vollen Rendering
	fed := f.prompts[0] + "Hello" + f.prompts[1]
	full := "<|im_start|>user\neins<|im_end|>\n<|im_start|>assistant\nHello<|im_end|>\n<|im_start|>user\nzwei<|im_end|>\n<|im_start|>assistant\n"
	if fed != full {
		t.Errorf("Eingabe = %q, erwartet %q", fed, full)
	}

	wantHistory := []api.Message{
		{Role: api.RoleUser, Content: "eins"},
		{Role: api.RoleAssistant, Content: "Hello"},
		{Role: api.RoleUser, Content: "zwei"},
		{Role: api.RoleAssistant, Content: "!"},
	}
	if diff := cmp.Diff(wantHistory, s.History()); diff != "" {
		t.Errorf("History() mismatch (-want +got):\n%s", diff)
	}
}

func TestContextOverflowBeforeDecode(t *testing.T) {
	tests := []struct {
		name   string
		used   int
		prompt int
	}{
		{"prompt groesser als Kontext", 0, 20},
		{"Kontext bereits voll", 8, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			m := engine.NewMockEngine(ctrl)

			m.EXPECT().ChatTemplate().Return("")
			m.EXPECT().ContextSize().Return(8).AnyTimes()
			m.EXPECT().ContextCellsUsed().Return(tt.used).AnyTimes()
			m.EXPECT().ClearMemory().AnyTimes()
			m.EXPECT().Tokenize(gomock.Any(), tt.used == 0, true).Return(make([]int, tt.prompt), nil)
			// kein Decode erwartet

			s := load(t, m, true)
			if err := s.StartCompletion("eine Frage"); err != nil {
				t.Fatal(err)
			}

			_, err := s.Step()
			if !errors.Is(err, ErrContextOverflow) {
				t.Fatalf("Step() = %v, erwartet ErrContextOverflow", err)
			}
			if s.State() != StateContextOverflow {
				t.Errorf("State() = %s, erwartet context overflow", s.State())
			}

			// Fehler bleibt bis StopCompletion bestehen
			if _, err := s.Step(); !errors.Is(err, ErrContextOverflow) {
				t.Errorf("zweiter Step() = %v, erwartet ErrContextOverflow", err)
			}

			s.StopCompletion()
			if s.State() != StateIdle {
				t.Errorf("State() = %s, erwartet idle", s.State())
			}
		})
	}
}

func TestOverflowDuringGeneration(t *testing.T) {
	f := newFake(slices.Repeat([]int{1}, 20)...)
	f.size = 60
	s := load(t, f, true)

	if err := s.StartCompletion("hi"); err != nil {
		t.Fatal(err)
	}

	var err error
	for range 100 {
		if _, err = s.Step(); err != nil {
			break
		}
	}
	if !errors.Is(err, ErrContextOverflow) {
		t.Fatalf("Step() = %v, erwartet ErrContextOverflow", err)
	}
	if f.cells > f.size {
		t.Errorf("Zellen %d ueberschreiten Kontext %d", f.cells, f.size)
	}

	// erholbar: StopCompletion, ResetHistory, neuer Turn
	s.StopCompletion()
	if err := s.ResetHistory(); err != nil {
		t.Fatal(err)
	}
	f.samples = nil
	if err := s.StartCompletion("neu"); err != nil {
		t.Fatalf("StartCompletion() nach Overflow Fehler: %v", err)
	}
	if got := steps(t, s); got[len(got)-1] != EOGMarker {
		t.Errorf("Turn nach Overflow endet mit %q", got[len(got)-1])
	}
	s.StopCompletion()
}

func TestKvCacheFullIsOverflow(t *testing.T) {
	f := newFake()
	f.decodeErr = engine.ErrKvCacheFull
	s := load(t, f, true)

	if err := s.StartCompletion("x"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Step(); !errors.Is(err, ErrContextOverflow) || !errors.Is(err, engine.ErrKvCacheFull) {
		t.Errorf("Step() = %v, erwartet ErrContextOverflow", err)
	}
}

func TestDecodeError(t *testing.T) {
	f := newFake()
	f.decodeErr = errors.New("kaputt")
	s := load(t, f, true)

	if err := s.StartCompletion("x"); err != nil {
		t.Fatal(err)
	}

	_, err := s.Step()
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("Step() = %v, erwartet ErrDecode", err)
	}
	if s.State() != StateDecodeError {
		t.Errorf("State() = %s, erwartet decode error", s.State())
	}

	s.StopCompletion()
	f.decodeErr = nil
	if err := s.StartCompletion("y"); err != nil {
		t.Fatal(err)
	}
	if f.clears != 1 {
		t.Errorf("KV-Cache nach Decode-Fehler %d mal geleert, erwartet 1", f.clears)
	}
	if !f.bos[1] {
		t.Error("nach Decode-Fehler sollte der Prompt neu mit BOS beginnen")
	}
}

func TestInvalidStateAndBusy(t *testing.T) {
	f := newFake()
	h := engine.NewHandle(f)
	s, err := Load(h, api.Options{StoreChats: true})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.Step(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Step() in Idle = %v, erwartet ErrInvalidState", err)
	}

	if err := s.StartCompletion("a"); err != nil {
		t.Fatal(err)
	}
	if err := s.StartCompletion("b"); !errors.Is(err, ErrBusy) {
		t.Errorf("zweites StartCompletion() = %v, erwartet ErrBusy", err)
	}
	if err := s.AddMessage(api.RoleUser, "x"); !errors.Is(err, ErrBusy) {
		t.Errorf("AddMessage() waehrend Turn = %v, erwartet ErrBusy", err)
	}
	if err := s.ResetHistory(); !errors.Is(err, ErrBusy) {
		t.Errorf("ResetHistory() waehrend Turn = %v, erwartet ErrBusy", err)
	}

	steps(t, s)
	if _, err := s.Step(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Step() nach EOG = %v, erwartet ErrInvalidState", err)
	}
	s.StopCompletion()

	// ein anderer Benutzer haelt die Engine
	if err := h.TryAcquire(); err != nil {
		t.Fatal(err)
	}
	if err := s.StartCompletion("c"); !errors.Is(err, ErrEngineBusy) {
		t.Errorf("StartCompletion() = %v, erwartet ErrEngineBusy", err)
	}
	if s.State() != StateIdle {
		t.Errorf("State() = %s, erwartet idle", s.State())
	}
	h.Release()
}

func TestStats(t *testing.T) {
	f := newFake(1, 2)
	f.delay = time.Millisecond
	s := load(t, f, true)

	if err := s.StartCompletion("x"); err != nil {
		t.Fatal(err)
	}
	steps(t, s)

	st := s.Stats()
	if st.Tokens != 2 {
		t.Errorf("Tokens = %d, erwartet 2", st.Tokens)
	}
	if st.DecodeDuration <= 0 || s.TokensPerSecond() <= 0 {
		t.Errorf("Stats() = %+v, TokensPerSecond() = %v", st, s.TokensPerSecond())
	}
	if s.ContextCellsUsed() != f.cells {
		t.Errorf("ContextCellsUsed() = %d, erwartet %d", s.ContextCellsUsed(), f.cells)
	}
	s.StopCompletion()

	// Zaehler gelten pro Turn
	if err := s.StartCompletion("y"); err != nil {
		t.Fatal(err)
	}
	if s.Stats().Tokens != 0 || s.TokensPerSecond() != 0 {
		t.Errorf("Stats() zu Beginn eines Turns = %+v", s.Stats())
	}
	s.StopCompletion()
}

func TestLoadOptions(t *testing.T) {
	t.Run("ungueltiges Template", func(t *testing.T) {
		_, err := Load(engine.NewHandle(newFake()), api.Options{Template: "gibtsnicht"})
		if !errors.Is(err, ErrLoad) {
			t.Errorf("Load() = %v, erwartet ErrLoad", err)
		}
	})

	t.Run("ohne Engine", func(t *testing.T) {
		if _, err := Load(nil, api.Options{}); !errors.Is(err, ErrLoad) {
			t.Errorf("Load(nil) = %v, erwartet ErrLoad", err)
		}
	})

	t.Run("System-Prompt und Template", func(t *testing.T) {
		f := newFake()
		s, err := Load(engine.NewHandle(f), api.Options{Template: "phi-3", System: "sei nett"})
		if err != nil {
			t.Fatal(err)
		}
		if err := s.StartCompletion("hi"); err != nil {
			t.Fatal(err)
		}
		if want := "<|system|>\nsei nett<|end|>\n<|user|>\nhi<|end|>\n<|assistant|>\n"; f.prompts[0] != want {
			t.Errorf("Prompt = %q, erwartet %q", f.prompts[0], want)
		}
		if h := s.History(); len(h) != 1 || h[0].Role != api.RoleUser {
			t.Errorf("System-Prompt darf nicht in der History landen: %v", h)
		}
	})
}

func TestAddMessageAndResetHistory(t *testing.T) {
	f := newFake()
	s := load(t, f, true)

	if err := s.AddMessage(api.RoleUser, "alt"); err != nil {
		t.Fatal(err)
	}
	if err := s.AddMessage(api.RoleAssistant, "antwort"); err != nil {
		t.Fatal(err)
	}
	if err := s.AddMessage("tool", "x"); err == nil {
		t.Error("AddMessage() mit unbekannter Rolle sollte fehlschlagen")
	}

	if err := s.StartCompletion("neu"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(f.prompts[0], "alt<|im_end|>") || !strings.Contains(f.prompts[0], "antwort<|im_end|>") {
		t.Errorf("wiederhergestellte Nachrichten fehlen im Prompt: %q", f.prompts[0])
	}
	steps(t, s)
	s.StopCompletion()

	if err := s.ResetHistory(); err != nil {
		t.Fatal(err)
	}
	if len(s.History()) != 0 {
		t.Errorf("History() nach ResetHistory = %v", s.History())
	}

	if err := s.StartCompletion("frisch"); err != nil {
		t.Fatal(err)
	}
	if f.clears != 1 {
		t.Errorf("ClearMemory() %d mal aufgerufen, erwartet 1", f.clears)
	}
	if want := "<|im_start|>user\nfrisch<|im_end|>\n<|im_start|>assistant\n"; f.prompts[1] != want {
		t.Errorf("Prompt nach ResetHistory = %q, erwartet %q", f.prompts[1], want)
	}
	s.StopCompletion()
}

func TestSetSystem(t *testing.T) {
	f := newFake()
	s := load(t, f, true)

	if err := s.StartCompletion("a"); err != nil {
		t.Fatal(err)
	}
	steps(t, s)
	s.StopCompletion()

	if err := s.SetSystem("sei kurz"); err != nil {
		t.Fatal(err)
	}
	if s.Options().System != "sei kurz" {
		t.Errorf("Options().System = %q", s.Options().System)
	}

	if err := s.StartCompletion("b"); err != nil {
		t.Fatal(err)
	}
	want := "<|im_start|>system\nsei kurz<|im_end|>\n<|im_start|>user\na<|im_end|>\n"
	if !strings.HasPrefix(f.prompts[1], want) {
		t.Errorf("Prompt = %q, erwartet Praefix %q", f.prompts[1], want)
	}
	if f.clears != 1 {
		t.Errorf("ClearMemory() %d mal aufgerufen, erwartet 1", f.clears)
	}
	if err := s.SetSystem("x"); !errors.Is(err, ErrBusy) {
		t.Errorf("SetSystem() waehrend Turn = %v, erwartet ErrBusy", err)
	}
	s.StopCompletion()
}

func TestComplete(t *testing.T) {
	s := load(t, newFake(1, 2, 3, 4), true)

	var pieces []string
	resp, err := s.Complete(t.Context(), "hi", func(p string) error {
		pieces = append(pieces, p)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"Hel", "lo", "中"}, pieces); diff != "" {
		t.Errorf("Stuecke mismatch (-want +got):\n%s", diff)
	}
	if resp.Text != "Hello中" {
		t.Errorf("Text = %q, erwartet %q", resp.Text, "Hello中")
	}
	if resp.Metrics.EvalCount != 4 {
		t.Errorf("EvalCount = %d, erwartet 4", resp.Metrics.EvalCount)
	}
	if s.State() != StateIdle {
		t.Errorf("State() nach Complete = %s, erwartet idle", s.State())
	}
}

func TestCompleteCancelled(t *testing.T) {
	s := load(t, newFake(1, 2, 5, 5, 5), true)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	resp, err := s.Complete(ctx, "hi", func(p string) error {
		if p == "lo" {
			cancel()
		}
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Complete() = %v, erwartet context.Canceled", err)
	}
	if resp.Text != "Hello" {
		t.Errorf("Text = %q, erwartet %q", resp.Text, "Hello")
	}

	h := s.History()
	if last := h[len(h)-1]; last.Role != api.RoleAssistant || last.Content != "Hello" {
		t.Errorf("letzte Nachricht = %+v, erwartet abgebrochene Antwort", last)
	}
}

func TestCompleteWithBytegram(t *testing.T) {
	corpus := strings.Repeat("<|im_start|>user\nHallo<|im_end|>\n<|im_start|>assistant\nGrüß dich, schön dass du da bist!<|im_end|>\n\n", 20)
	m := bytegram.New("test", []byte(corpus), bytegram.Params{NumCtx: 512, Temperature: 0.7, MinP: 0.05, Seed: 7})

	s := load(t, m, true)
	resp, err := s.Complete(t.Context(), "Hallo", nil)
	if err != nil && !errors.Is(err, ErrContextOverflow) {
		t.Fatalf("Complete() Fehler: %v", err)
	}
	if !utf8.ValidString(resp.Text) {
		t.Errorf("Antwort ist kein gueltiges UTF-8: %q", resp.Text)
	}
	if m.ContextCellsUsed() > m.ContextSize() {
		t.Errorf("Zellen %d ueberschreiten Kontext %d", m.ContextCellsUsed(), m.ContextSize())
	}
}

func TestCompleteTokenizeErrorReleasesEngine(t *testing.T) {
	f := newFake(5)
	f.tokErr = errors.New("tokenizer kaputt")
	s := load(t, f, true)

	for i := range 2 {
		_, err := s.Complete(t.Context(), "x", nil)
		if !errors.Is(err, ErrDecode) {
			t.Fatalf("Complete() #%d = %v, erwartet ErrDecode", i+1, err)
		}
		if s.State() != StateIdle {
			t.Errorf("State() = %s, erwartet idle", s.State())
		}
	}

	if len(s.History()) != 0 {
		t.Errorf("History() = %v, erwartet leer", s.History())
	}

	if err := s.handle.TryAcquire(); err != nil {
		t.Fatalf("Engine nach Complete noch belegt: %v", err)
	}
	s.handle.Release()

	f.tokErr = nil
	resp, err := s.Complete(t.Context(), "x", nil)
	if err != nil {
		t.Fatalf("Complete() nach Fehler = %v", err)
	}
	if resp.Text != "!" {
		t.Errorf("Text = %q, erwartet \"!\"", resp.Text)
	}
}

func TestStartCompletionTokenizeError(t *testing.T) {
	f := newFake()
	f.tokErr = errors.New("tokenizer kaputt")
	s := load(t, f, true)

	if err := s.StartCompletion("x"); !errors.Is(err, ErrDecode) {
		t.Fatalf("StartCompletion() = %v, erwartet ErrDecode", err)
	}
	if s.State() != StateDecodeError {
		t.Errorf("State() = %s, erwartet decode error", s.State())
	}

	s.StopCompletion()
	if s.State() != StateIdle || len(s.History()) != 0 {
		t.Errorf("State() = %s, History() = %v, erwartet idle und leer", s.State(), s.History())
	}
	if err := s.StartCompletion("y"); !errors.Is(err, ErrDecode) {
		t.Errorf("zweiter StartCompletion() = %v, erwartet ErrDecode statt ErrBusy", err)
	}
}
