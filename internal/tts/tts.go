// Package tts implements the TTS Fan-out (§4.5): a bounded producer
// thread-pool synthesizes speech off the event-loop thread, a single
// consumer goroutine drains completed blobs and broadcasts them in
// completion order (not submission order — §8 scenario S6), and the client
// reassembles sentences using sentence_index. The worker-count semaphore
// reuses the teacher's channel-semaphore idiom (see gateway's websock
// readSem/writeSem).
package tts

import (
	"context"
	"encoding/base64"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"temserver/internal/metrics"
	"temserver/internal/room"
)

// Request is one sentence's synthesis job, matching the client's
// request_tts frame (§6).
type Request struct {
	RoomID         string
	Text           string
	MessageID      string
	SentenceIndex  int
	TotalSentences int
	Voice          string
}

// Broadcaster is how the Pool reaches clients once synthesis completes.
type Broadcaster interface {
	ToRoom(roomID, msgType string, payload any)
}

type result struct {
	req   Request
	audio []byte
	err   error
}

// Pool is the TTS producer/consumer pair for the whole process. One Pool
// serves every room; room-scoped cancellation is enforced by checking the
// Store at delivery time (§5 "queued TTS blobs for that room are dropped").
type Pool struct {
	sem          chan struct{}
	results      chan result
	synth        SynthClient
	bcast        Broadcaster
	store        *room.Store
	defaultVoice string
	metrics      *metrics.Metrics
	inFlight     int64
}

// NewPool builds a Pool bounded to maxWorkers concurrent synthesis calls.
// m may be nil, in which case no metrics are recorded.
func NewPool(maxWorkers int, synth SynthClient, bcast Broadcaster, store *room.Store, defaultVoice string, m *metrics.Metrics) *Pool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &Pool{
		sem:          make(chan struct{}, maxWorkers),
		results:      make(chan result, maxWorkers*4),
		synth:        synth,
		bcast:        bcast,
		store:        store,
		defaultVoice: defaultVoice,
		metrics:      m,
	}
}

// Submit enqueues one synthesis job. It implements gateway.TTSSubmitter.
// The blocking synthesis call runs in its own goroutine once a worker slot
// is free, never on the caller's goroutine.
func (p *Pool) Submit(roomID, text, messageID string, sentenceIndex, totalSentences int) {
	req := Request{
		RoomID:         roomID,
		Text:           text,
		MessageID:      messageID,
		SentenceIndex:  sentenceIndex,
		TotalSentences: totalSentences,
		Voice:          p.defaultVoice,
	}
	p.metrics.SetTTSQueueDepth(int(atomic.AddInt64(&p.inFlight, 1)))
	go p.synthesize(req)
}

func (p *Pool) synthesize(req Request) {
	p.sem <- struct{}{}
	defer func() { <-p.sem }()
	defer func() { p.metrics.SetTTSQueueDepth(int(atomic.AddInt64(&p.inFlight, -1))) }()

	if _, ok := p.store.Get(req.RoomID); !ok {
		// Room gone before a worker slot opened up: drop silently.
		return
	}

	start := time.Now()
	audio, err := p.synth.Synthesize(context.Background(), req.Text, req.Voice)
	p.metrics.RecordTTSSynthesis(err == nil, time.Since(start))
	p.results <- result{req: req, audio: audio, err: err}
}

// Run drains completed jobs and broadcasts tts_audio frames until ctx is
// canceled. It is the single consumer §4.5 requires.
func (p *Pool) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case res := <-p.results:
			p.deliver(res)
		}
	}
}

func (p *Pool) deliver(res result) {
	if res.err != nil {
		log.Warn().Err(res.err).Str("room", res.req.RoomID).Str("message_id", res.req.MessageID).
			Int("sentence_index", res.req.SentenceIndex).Msg("tts synthesis failed, dropping sentence")
		return
	}
	if _, ok := p.store.Get(res.req.RoomID); !ok {
		// Last user disconnected while this sentence was synthesizing.
		return
	}
	p.bcast.ToRoom(res.req.RoomID, "tts_audio", map[string]any{
		"message_id":     res.req.MessageID,
		"sentence_index": res.req.SentenceIndex,
		"audio_base64":   base64.StdEncoding.EncodeToString(res.audio),
	})
}
