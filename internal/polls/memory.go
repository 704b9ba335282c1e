package polls

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"livepoll/internal/models"
)

// MemStore is an in-memory Store. It backs tests and serves as a fallback when
// no MONGODB_URL is configured; nothing survives a restart.
type MemStore struct {
	mu    sync.Mutex
	polls map[string]models.Poll
	order []string
}

func NewMemStore() *MemStore {
	return &MemStore{polls: make(map[string]models.Poll)}
}

func (s *MemStore) Create(_ context.Context, req models.CreatePollRequest) (*models.Poll, error) {
	poll := normalize(req)
	poll.ID = primitive.NewObjectID()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.polls[poll.ID.Hex()] = poll
	s.order = append(s.order, poll.ID.Hex())

	out := clonePoll(poll)
	return &out, nil
}

func (s *MemStore) ByOwner(_ context.Context, username string) ([]models.Poll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Walk insertion order newest first so equal timestamps keep a stable,
	// newest-first order under the sort below.
	polls := []models.Poll{}
	for i := len(s.order) - 1; i >= 0; i-- {
		poll := s.polls[s.order[i]]
		if poll.TeacherUserName == username {
			polls = append(polls, clonePoll(poll))
		}
	}
	sort.SliceStable(polls, func(i, j int) bool {
		return polls[i].CreatedAt.After(polls[j].CreatedAt)
	})
	return polls, nil
}

func (s *MemStore) ByID(_ context.Context, id string) (*models.Poll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	poll, ok := s.polls[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := clonePoll(poll)
	return &out, nil
}

func (s *MemStore) IncrementVote(_ context.Context, pollID string, optionID int) (*models.Poll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	poll, ok := s.polls[pollID]
	if !ok {
		return nil, ErrNotFound
	}
	for i := range poll.Options {
		if poll.Options[i].ID == optionID {
			poll.Options[i].Votes++
			s.polls[pollID] = poll
			out := clonePoll(poll)
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func clonePoll(poll models.Poll) models.Poll {
	out := poll
	out.Options = make([]models.Option, len(poll.Options))
	copy(out.Options, poll.Options)
	return out
}
