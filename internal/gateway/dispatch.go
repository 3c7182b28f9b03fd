package gateway

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"temserver/internal/room"
)

// dispatch routes one inbound Envelope to the matching Game Logic call,
// translating Go errors to error_msg/room_full frames at this boundary
// (§7 propagation policy).
func (c *Client) dispatch(env Envelope) {
	if env.Type == "join" {
		c.handleJoin(env)
		return
	}

	if c.roomID == "" {
		c.sendError(env.Room, "must join a room before sending "+env.Type)
		return
	}

	var err error
	switch env.Type {
	case "pf_identify_threat":
		var p identifyThreatPayload
		if err = json.Unmarshal(env.Payload, &p); err == nil {
			err = c.gl.IdentifyThreat(c.roomID, c.actor(), p.Keyword)
		}
	case "pf_submit_decision":
		var p submitDecisionPayload
		if err = json.Unmarshal(env.Payload, &p); err == nil {
			err = c.gl.SubmitDecision(c.roomID, c.actor(), p.Keyword, p.OptionID)
		}
	case "pm_verify_decision":
		var p verifyDecisionPayload
		if err = json.Unmarshal(env.Payload, &p); err == nil {
			err = c.gl.VerifyDecision(c.roomID, c.actor(), p.Approved)
		}
	case "start_emergency_quiz":
		// Client readiness signal only; no state mutation, mirrors §6.
	case "submit_quiz_answer":
		var p submitQuizAnswerPayload
		if err = json.Unmarshal(env.Payload, &p); err == nil {
			err = c.gl.SubmitQuizAnswer(c.roomID, c.actor(), p.QuestionID, p.Answer)
		}
	case "req_phase_2":
		var transitioned bool
		transitioned, err = c.gl.RequestPhase2(c.roomID, c.actor())
		if err == nil && transitioned && c.cb.OnPhase2Start != nil {
			c.cb.OnPhase2Start(c.roomID)
		}
	case "monitor_gauge":
		var p monitorGaugePayload
		if err = json.Unmarshal(env.Payload, &p); err == nil {
			_, err = c.gl.MonitorGauge(c.roomID, c.actor(), p.GaugeID)
		}
	case "select_checklist":
		var p selectChecklistPayload
		if err = json.Unmarshal(env.Payload, &p); err == nil {
			err = c.gl.SelectQRH(c.roomID, c.actor(), p.Key)
		}
	case "check_item":
		var p checkItemPayload
		if err = json.Unmarshal(env.Payload, &p); err == nil {
			err = c.gl.CheckItem(c.roomID, c.actor(), p.Index)
		}
	case "send_chat_message":
		var p sendChatPayload
		if err = json.Unmarshal(env.Payload, &p); err == nil {
			err = c.gl.SendChat(c.roomID, c.actor(), p.Message, p.TTSRequested)
		}
	case "request_tts":
		var p requestTTSPayload
		if err = json.Unmarshal(env.Payload, &p); err == nil && c.tts != nil {
			c.tts.Submit(c.roomID, p.Text, p.MessageID, p.SentenceIndex, p.TotalSentences)
		}
	case "get_briefing":
		c.enqueue("briefing_data", c.roomID, map[string]any{"briefings": c.gl.Briefings()})
	default:
		log.Warn().Str("type", env.Type).Msg("gateway: unknown inbound message type")
		return
	}

	if err != nil {
		c.sendError(c.roomID, err.Error())
	}
}

func (c *Client) handleJoin(env Envelope) {
	var p joinPayload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		c.sendError(p.Room, "malformed join payload")
		return
	}

	role := room.Role(p.Role)
	mode := room.Mode(p.Mode)
	if mode == "" {
		mode = room.ModeDualPlayer
	}

	// Register before joining so the joiner receives the join's own
	// user_count_update and start_phase_1 broadcasts.
	c.hub.add(p.Room, c)
	result, err := c.gl.Join(p.Room, c.handle, p.Username, role, mode)
	if err != nil {
		c.hub.remove(p.Room, c.handle)
		c.enqueue("room_full", p.Room, map[string]any{"msg": err.Error()})
		return
	}

	c.roomID = p.Room
	c.username = p.Username
	c.role = role

	if result.NeedsAI && c.cb.OnNeedsAI != nil {
		c.cb.OnNeedsAI(p.Room, result.AIRole, "AI Copilot")
	}
}
