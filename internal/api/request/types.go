package request

// CreateGuestRequest is the request body for creating a guest player
type CreateGuestRequest struct {
	DisplayName string `json:"display_name"`
}

// RegisterRequest is the request body for registering a player
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// QuestionPayload is one question in an explicit session bank
type QuestionPayload struct {
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	TimeLimit    int      `json:"time_limit,omitempty"`
}

// CreateSessionRequest is the request body for creating a session.
// An explicit question bank takes precedence; otherwise questions are
// drawn from the named set.
type CreateSessionRequest struct {
	Questions []QuestionPayload `json:"questions,omitempty"`
	SetName   string            `json:"set_name,omitempty"`
	Count     int               `json:"count,omitempty"`
}

// SubmitAnswerRequest is the request body for submitting an answer.
// Answer is a pointer so that option 0 is distinguishable from a
// missing field.
type SubmitAnswerRequest struct {
	Answer *int `json:"answer"`
}
