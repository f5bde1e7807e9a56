package storage

import (
	"context"

	"tokenRelay/internal/model"
)

// Journal defines a sink for confirmed submissions.
type Journal interface {
	PutSubmission(ctx context.Context, sub model.Submission) error
}

// NopJournal discards submissions.
type NopJournal struct{}

func (NopJournal) PutSubmission(context.Context, model.Submission) error {
	return nil
}
