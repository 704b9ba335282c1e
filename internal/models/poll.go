package models

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Option is one selectable choice within a poll. IDs are unique per poll only.
type Option struct {
	ID      int    `bson:"id" json:"id"`
	Text    string `bson:"text" json:"text"`
	Correct bool   `bson:"correct" json:"correct"`
	Votes   int    `bson:"votes" json:"votes"`
}

// Poll is the canonical stored shape. TeacherUserName is the single owner field
// used by every read and write path.
type Poll struct {
	ID              primitive.ObjectID `bson:"_id" json:"_id"`
	Question        string             `bson:"question" json:"question"`
	Options         []Option           `bson:"options" json:"options"`
	Timer           int                `bson:"timer" json:"timer"`
	TeacherUserName string             `bson:"teacherUserName" json:"teacherUserName"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}

// CreateOptionRequest accepts either a bare string ("A") or an object
// ({"id":1,"text":"A","correct":true}) on the wire. Both REST and socket
// clients exist in the wild with each shape.
type CreateOptionRequest struct {
	Text    string `json:"text" validate:"required"`
	Correct bool   `json:"correct"`
}

func (o *CreateOptionRequest) UnmarshalJSON(b []byte) error {
	var text string
	if err := json.Unmarshal(b, &text); err == nil {
		o.Text = text
		o.Correct = false
		return nil
	}

	var aux struct {
		Text    string `json:"text"`
		Correct bool   `json:"correct"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	o.Text = aux.Text
	o.Correct = aux.Correct
	return nil
}

// CreatePollRequest is the unified poll-creation contract. Legacy clients name
// the owner field "createdBy" (REST) or "teacherUsername" (socket); both
// normalize into TeacherUserName. Timer arrives as a number or a quoted number.
type CreatePollRequest struct {
	Question        string                `json:"question" validate:"required"`
	Options         []CreateOptionRequest `json:"options" validate:"required,min=2,dive"`
	Timer           int                   `json:"timer"`
	TeacherUserName string                `json:"teacherUserName" validate:"required"`
}

func (r *CreatePollRequest) UnmarshalJSON(b []byte) error {
	var aux struct {
		Question        string                `json:"question"`
		Options         []CreateOptionRequest `json:"options"`
		Timer           json.RawMessage       `json:"timer"`
		TeacherUserName string                `json:"teacherUserName"`
		CreatedBy       string                `json:"createdBy"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	r.Question = aux.Question
	r.Options = aux.Options
	r.Timer = parseTimer(aux.Timer)

	r.TeacherUserName = aux.TeacherUserName
	if r.TeacherUserName == "" {
		r.TeacherUserName = aux.CreatedBy
	}
	return nil
}

// parseTimer accepts 60, "60", or nothing; anything else counts as no timer.
func parseTimer(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		var m int
		if err := json.Unmarshal([]byte(s), &m); err == nil {
			return m
		}
	}
	return 0
}

// VoteRequest identifies one option of one poll. Option IDs are the option's
// position in the poll's option list, starting at 0.
type VoteRequest struct {
	PollID   string `json:"pollId" validate:"required"`
	OptionID int    `json:"optionId" validate:"min=0"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}
