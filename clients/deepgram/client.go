package deepgram

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const defaultURL = "wss://api.deepgram.com/v1/listen"

// TranscriptCallback is called for every interim or final transcript.
type TranscriptCallback func(transcript string, isFinal bool)

// ErrorCallback is called when the connection fails while reading.
type ErrorCallback func(err error)

// Interface is a streaming speech-to-text connection.
type Interface interface {
	OnTranscript(callback TranscriptCallback)
	OnError(callback ErrorCallback)
	Connect(ctx context.Context) error
	SendAudio(pcmData []byte) error
	Close() error
}

type clientImpl struct {
	url            string
	apiKey         string
	language       string
	sampleRate     int
	utteranceEndMs int

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
	done      chan struct{}
	callback  TranscriptCallback
	errorCb   ErrorCallback
}

// Config holds connection settings.
type Config struct {
	URL            string
	APIKey         string
	Language       string
	SampleRate     int
	UtteranceEndMs int
}

type messageType struct {
	Type string `json:"type"`
}

type transcriptResponse struct {
	Type    string `json:"type"`
	Channel struct {
		Alternatives []struct {
			Transcript string  `json:"transcript"`
			Confidence float64 `json:"confidence"`
		} `json:"alternatives"`
	} `json:"channel"`
	IsFinal bool `json:"is_final"`
}

// NewClient creates a client; each recognition session should use its own.
func NewClient(cfg *Config) (Interface, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing parameter: cfg.APIKey")
	}

	c := &clientImpl{
		url:            cfg.URL,
		apiKey:         cfg.APIKey,
		language:       cfg.Language,
		sampleRate:     cfg.SampleRate,
		utteranceEndMs: cfg.UtteranceEndMs,
	}

	if c.url == "" {
		c.url = defaultURL
	}

	if c.sampleRate == 0 {
		c.sampleRate = 16000
	}

	if c.utteranceEndMs == 0 {
		c.utteranceEndMs = 1000
	}

	return c, nil
}

func (c *clientImpl) OnTranscript(callback TranscriptCallback) {
	c.callback = callback
}

func (c *clientImpl) OnError(callback ErrorCallback) {
	c.errorCb = callback
}

func (c *clientImpl) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		return nil
	}

	u, err := url.Parse(c.url)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}

	q := u.Query()
	q.Set("encoding", "linear16")
	q.Set("sample_rate", strconv.Itoa(c.sampleRate))
	q.Set("channels", "1")
	q.Set("interim_results", "true")
	q.Set("utterance_end_ms", strconv.Itoa(c.utteranceEndMs))

	if c.language != "" {
		q.Set("language", c.language)
	}

	u.RawQuery = q.Encode()

	header := http.Header{}
	header.Set("Authorization", "Token "+c.apiKey)

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, u.String(), header)
	if err != nil {
		return fmt.Errorf("deepgram connection failed: %w", err)
	}

	c.conn = conn
	c.connected = true
	c.done = make(chan struct{})

	go c.readResponses(conn, c.done)

	log.Printf("[Deepgram] connected")

	return nil
}

func (c *clientImpl) readResponses(conn *websocket.Conn, done chan struct{}) {
	defer func() {
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-done:
				return
			default:
			}

			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return
			}

			if c.errorCb != nil {
				c.errorCb(err)
			}

			return
		}

		var msgType messageType
		if err := json.Unmarshal(message, &msgType); err != nil {
			continue
		}

		if msgType.Type != "Results" {
			continue
		}

		var resp transcriptResponse
		if err := json.Unmarshal(message, &resp); err != nil {
			continue
		}

		if len(resp.Channel.Alternatives) == 0 {
			continue
		}

		transcript := resp.Channel.Alternatives[0].Transcript
		if transcript != "" && c.callback != nil {
			c.callback(transcript, resp.IsFinal)
		}
	}
}

func (c *clientImpl) SendAudio(pcmData []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected || c.conn == nil {
		return fmt.Errorf("not connected")
	}

	return c.conn.WriteMessage(websocket.BinaryMessage, pcmData)
}

func (c *clientImpl) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}

	select {
	case <-c.done:
	default:
		close(c.done)
	}

	_ = c.conn.WriteMessage(websocket.TextMessage, []byte(`{"type": "CloseStream"}`))
	err := c.conn.Close()

	c.conn = nil
	c.connected = false

	log.Printf("[Deepgram] disconnected")

	return err
}
