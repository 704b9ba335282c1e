package polls

import (
	"context"
	"errors"
	"testing"
	"time"

	"livepoll/internal/models"
)

func newCreateRequest(question, owner string, options ...string) models.CreatePollRequest {
	req := models.CreatePollRequest{
		Question:        question,
		Timer:           60,
		TeacherUserName: owner,
	}
	for _, text := range options {
		req.Options = append(req.Options, models.CreateOptionRequest{Text: text})
	}
	return req
}

func TestCreateNormalizesOptions(t *testing.T) {
	store := NewMemStore()

	poll, err := store.Create(context.Background(), newCreateRequest("Q1", "t1", "A", "B", "C"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if poll.ID.IsZero() {
		t.Error("expected a generated poll ID")
	}
	if len(poll.Options) != 3 {
		t.Fatalf("expected 3 options, got %d", len(poll.Options))
	}
	for i, option := range poll.Options {
		if option.ID != i {
			t.Errorf("option %d: expected ID %d, got %d", i, i, option.ID)
		}
		if option.Votes != 0 {
			t.Errorf("option %d: expected 0 votes, got %d", i, option.Votes)
		}
	}
}

func TestByOwnerNewestFirst(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	first, _ := store.Create(ctx, newCreateRequest("Q1", "t1", "A", "B"))
	second, _ := store.Create(ctx, newCreateRequest("Q2", "t1", "A", "B"))
	store.Create(ctx, newCreateRequest("Q3", "someone-else", "A", "B"))

	polls, err := store.ByOwner(ctx, "t1")
	if err != nil {
		t.Fatalf("ByOwner failed: %v", err)
	}
	if len(polls) != 2 {
		t.Fatalf("expected 2 polls, got %d", len(polls))
	}
	if polls[0].ID != second.ID || polls[1].ID != first.ID {
		t.Errorf("expected newest-first order [%s %s], got [%s %s]",
			second.ID.Hex(), first.ID.Hex(), polls[0].ID.Hex(), polls[1].ID.Hex())
	}
}

func TestByOwnerUnknownReturnsEmpty(t *testing.T) {
	store := NewMemStore()

	polls, err := store.ByOwner(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("ByOwner failed: %v", err)
	}
	if len(polls) != 0 {
		t.Errorf("expected no polls, got %d", len(polls))
	}
}

func TestIncrementVote(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	poll, _ := store.Create(ctx, newCreateRequest("Q1", "t1", "A", "B"))

	for i := 1; i <= 5; i++ {
		updated, err := store.IncrementVote(ctx, poll.ID.Hex(), 1)
		if err != nil {
			t.Fatalf("IncrementVote %d failed: %v", i, err)
		}
		if updated.Options[1].Votes != i {
			t.Errorf("after %d votes: expected %d, got %d", i, i, updated.Options[1].Votes)
		}
		if updated.Options[0].Votes != 0 {
			t.Errorf("option 0 should be untouched, got %d votes", updated.Options[0].Votes)
		}
	}
}

func TestIncrementVoteNotFound(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	poll, _ := store.Create(ctx, newCreateRequest("Q1", "t1", "A", "B"))

	if _, err := store.IncrementVote(ctx, "no-such-poll", 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown poll: expected ErrNotFound, got %v", err)
	}
	if _, err := store.IncrementVote(ctx, poll.ID.Hex(), 99); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown option: expected ErrNotFound, got %v", err)
	}

	// Either failure must leave stored data unchanged.
	stored, err := store.ByID(ctx, poll.ID.Hex())
	if err != nil {
		t.Fatalf("ByID failed: %v", err)
	}
	for _, option := range stored.Options {
		if option.Votes != 0 {
			t.Errorf("option %d mutated by failed vote: %d votes", option.ID, option.Votes)
		}
	}
}

func TestByIDNotFound(t *testing.T) {
	store := NewMemStore()

	if _, err := store.ByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateStampsCreatedAt(t *testing.T) {
	store := NewMemStore()

	before := time.Now().Add(-time.Second)
	poll, err := store.Create(context.Background(), newCreateRequest("Q1", "t1", "A", "B"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if poll.CreatedAt.Before(before) || poll.CreatedAt.After(time.Now().Add(time.Second)) {
		t.Errorf("CreatedAt %v not near now", poll.CreatedAt)
	}
}
