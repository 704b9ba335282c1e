package polls

import (
	"context"
	"errors"
	"time"

	"livepoll/internal/models"
)

// ErrNotFound reports that no poll (or poll+option pair) matched the request.
var ErrNotFound = errors.New("poll not found")

// ErrUnavailable reports that the backing store could not serve the request.
var ErrUnavailable = errors.New("poll store unavailable")

// Store is the single owner of persisted poll data. Both the REST handlers and
// the real-time hub mutate polls through it; vote tallies live nowhere else.
type Store interface {
	Create(ctx context.Context, req models.CreatePollRequest) (*models.Poll, error)
	ByOwner(ctx context.Context, username string) ([]models.Poll, error)
	ByID(ctx context.Context, id string) (*models.Poll, error)
	IncrementVote(ctx context.Context, pollID string, optionID int) (*models.Poll, error)
}

// normalize turns a creation request into the canonical stored shape: option
// IDs are the option's index, vote counters start at zero.
func normalize(req models.CreatePollRequest) models.Poll {
	options := make([]models.Option, len(req.Options))
	for i, o := range req.Options {
		options[i] = models.Option{
			ID:      i,
			Text:    o.Text,
			Correct: o.Correct,
			Votes:   0,
		}
	}
	return models.Poll{
		Question:        req.Question,
		Options:         options,
		Timer:           req.Timer,
		TeacherUserName: req.TeacherUserName,
		CreatedAt:       time.Now().UTC(),
	}
}
