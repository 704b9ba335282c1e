package models

import (
	"encoding/json"
	"testing"
)

func TestCreatePollRequestRESTShape(t *testing.T) {
	// The REST clients send bare option strings and name the owner "createdBy".
	body := `{"question":"Q1","options":["A","B"],"createdBy":"t1"}`

	var req CreatePollRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if req.Question != "Q1" {
		t.Errorf("question: got %q", req.Question)
	}
	if req.TeacherUserName != "t1" {
		t.Errorf("owner: expected t1, got %q", req.TeacherUserName)
	}
	if len(req.Options) != 2 || req.Options[0].Text != "A" || req.Options[1].Text != "B" {
		t.Errorf("options: got %+v", req.Options)
	}
}

func TestCreatePollRequestSocketShape(t *testing.T) {
	body := `{
		"question":"Q2",
		"options":[{"id":1,"text":"Yes","correct":true},{"id":2,"text":"No"}],
		"timer":60,
		"teacherUsername":"t2"
	}`

	var req CreatePollRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if req.TeacherUserName != "t2" {
		t.Errorf("owner: expected t2, got %q", req.TeacherUserName)
	}
	if req.Timer != 60 {
		t.Errorf("timer: expected 60, got %d", req.Timer)
	}
	if len(req.Options) != 2 {
		t.Fatalf("expected 2 options, got %d", len(req.Options))
	}
	if !req.Options[0].Correct || req.Options[0].Text != "Yes" {
		t.Errorf("option 0: got %+v", req.Options[0])
	}
	if req.Options[1].Correct {
		t.Error("option 1: correct should default to false")
	}
}

func TestCreatePollRequestTimerAsString(t *testing.T) {
	body := `{"question":"Q","options":["A","B"],"timer":"45","teacherUserName":"t"}`

	var req CreatePollRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if req.Timer != 45 {
		t.Errorf("timer: expected 45, got %d", req.Timer)
	}
}

func TestCreatePollRequestCanonicalOwnerWins(t *testing.T) {
	body := `{"question":"Q","options":["A","B"],"teacherUserName":"canon","createdBy":"legacy"}`

	var req CreatePollRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if req.TeacherUserName != "canon" {
		t.Errorf("expected canonical owner field to win, got %q", req.TeacherUserName)
	}
}
