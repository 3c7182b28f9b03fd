package gateway

import "encoding/json"

// Envelope is the wire message shape for both directions (§4.6, §6):
// {type, room, payload}.
type Envelope struct {
	Type    string          `json:"type"`
	Room    string          `json:"room"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Inbound payload shapes (§6 client→server).

type joinPayload struct {
	Room     string `json:"room"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Mode     string `json:"mode"`
}

type identifyThreatPayload struct {
	Keyword string `json:"keyword"`
}

type submitDecisionPayload struct {
	Keyword  string `json:"keyword"`
	OptionID string `json:"option_id"`
}

type verifyDecisionPayload struct {
	Approved bool `json:"approved"`
}

type submitQuizAnswerPayload struct {
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
}

type monitorGaugePayload struct {
	GaugeID string `json:"gauge_id"`
}

type selectChecklistPayload struct {
	Key string `json:"key"`
}

type checkItemPayload struct {
	Index int `json:"index"`
}

type sendChatPayload struct {
	Message      string `json:"message"`
	TTSRequested bool   `json:"tts_requested"`
}

type requestTTSPayload struct {
	Text           string `json:"text"`
	MessageID      string `json:"message_id"`
	SentenceIndex  int    `json:"sentence_index"`
	TotalSentences int    `json:"total_sentences"`
}
