package analysis

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/cbegin/textscape-go/internal/lexicon"
)

// Report gathers the five analyses of one text.
type Report struct {
	WordCount  int
	Phonetic   Phonetic
	Lexical    Lexical
	Sentiment  Sentiment
	Structural Structural
	Complexity Complexity
}

// Options configures Run.
type Options struct {
	VAD lexicon.VADTable // nil disables table lookups
}

// Run executes the analyzers concurrently. They share nothing, so the only
// failure is a cancelled context.
func Run(ctx context.Context, text string, opts Options) (*Report, error) {
	r := &Report{WordCount: len(Words(text))}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.Phonetic = AnalyzePhonetic(text)
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.Lexical = AnalyzeLexical(text)
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.Sentiment = SentimentAnalyzer{VAD: opts.VAD}.Analyze(text)
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.Structural = AnalyzeStructural(text)
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.Complexity = AnalyzeComplexity(text)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return r, nil
}
