// complete.go - Streaming-Helfer ueber StartCompletion/Step/StopCompletion
package runner

import (
	"context"
	"strings"
	"time"

	"github.com/smolchat/smolchat/api"
)

// Response ist das Ergebnis von Complete
type Response struct {
	Text    string
	Metrics api.Metrics
}

// Complete fuehrt einen ganzen Turn aus und ruft fn fuer jedes nicht-leere Textstueck auf.
// Es wird auf die Engine gewartet bis sie frei ist oder ctx endet.
// Endet ctx waehrend der Generierung, wird der Turn wie bei StopCompletion beendet
// und die bisherige Antwort zusammen mit ctx.Err() zurueckgegeben.
func (s *Session) Complete(ctx context.Context, query string, fn func(string) error) (Response, error) {
	start := time.Now()
	busy := s.state.active()
	if err := s.start(query, func() error { return s.handle.Acquire(ctx) }); err != nil {
		// ein halb gestarteter Turn (etwa nach Tokenize-Fehler) gibt die Engine wieder frei
		if !busy && s.state.active() {
			s.StopCompletion()
		}
		return Response{}, err
	}
	defer s.StopCompletion()

	var sb strings.Builder
	response := func() Response {
		return Response{
			Text: sb.String(),
			Metrics: api.Metrics{
				TotalDuration:   time.Since(start),
				PromptEvalCount: s.stats.PromptTokens,
				EvalCount:       s.stats.Tokens,
				EvalDuration:    s.stats.DecodeDuration,
				ContextUsed:     s.stats.ContextUsed,
				TokensPerSecond: s.TokensPerSecond(),
			},
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return response(), err
		}

		piece, err := s.Step()
		if err != nil {
			return response(), err
		}

		if piece == EOGMarker {
			return response(), nil
		}
		if piece == "" {
			continue
		}

		sb.WriteString(piece)
		if fn != nil {
			if err := fn(piece); err != nil {
				return response(), err
			}
		}
	}
}
