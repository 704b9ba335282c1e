package realtime

import "encoding/json"

// Client-to-server event names. These mirror the socket protocol the classroom
// frontends already speak.
const (
	EventCreatePoll   = "createPoll"
	EventVote         = "vote"
	EventSubmitAnswer = "submitAnswer"
	EventJoinChat     = "joinChat"
	EventChatMessage  = "chatMessage"
	EventKickOut      = "kickOut"
)

// Server-to-client event names.
const (
	EventPollCreated        = "pollCreated"
	EventPollUpdate         = "pollUpdate"
	EventPollResults        = "pollResults"
	EventPollError          = "pollError"
	EventParticipantsUpdate = "participantsUpdate"
	EventKickedOut          = "kickedOut"
)

// Envelope is the wire format in both directions: a named event plus an
// arbitrary JSON payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

func marshalEnvelope(event string, data interface{}) ([]byte, error) {
	env := Envelope{Event: event}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		env.Data = raw
	}
	return json.Marshal(env)
}

type pollErrorPayload struct {
	Message string `json:"message"`
}

type joinChatPayload struct {
	Username string `json:"username"`
}
