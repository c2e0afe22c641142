package recipe

import (
	"context"
	"iter"
	"time"
)

// Attempt is the outcome of calling one candidate model.
type Attempt struct {
	Model    string
	Text     string
	Err      error
	Duration time.Duration
}

// OK reports whether the candidate returned text.
func (a Attempt) OK() bool {
	return a.Err == nil
}

// Attempts calls each model in order and yields one Attempt per call.
// Iteration is lazy: the caller stops it by breaking out of the range loop,
// and no model is called more than once.
func Attempts(ctx context.Context, gen Generator, models []string, prompt string, image Image) iter.Seq[Attempt] {
	return func(yield func(Attempt) bool) {
		for _, model := range models {
			start := time.Now()
			text, err := gen.GenerateContent(ctx, model, prompt, image)
			a := Attempt{Model: model, Err: err, Duration: time.Since(start)}
			if err == nil {
				a.Text = text
			}
			if !yield(a) {
				return
			}
		}
	}
}
