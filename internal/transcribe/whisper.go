package transcribe

import (
	"context"
	"fmt"
	"io"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/veritok/veritok/internal/model"
)

// WhisperSTT implements SpeechToText against the OpenAI audio
// transcription API.
type WhisperSTT struct {
	client *openai.Client
	model  string
}

// NewWhisperSTT creates a Whisper-backed transcription client.
// Returns nil (not an error) when no API key is configured, so the
// orchestrator degrades the stage instead of refusing to start.
func NewWhisperSTT(cfg *model.TranscriberConfig) *WhisperSTT {
	if cfg.APIKey == "" {
		return nil
	}
	m := cfg.Model
	if m == "" {
		m = openai.Whisper1
	}
	return &WhisperSTT{
		client: openai.NewClient(cfg.APIKey),
		model:  m,
	}
}

// Transcribe sends the media bytes to the transcription API and maps
// the response to the transcript shape.
func (w *WhisperSTT) Transcribe(ctx context.Context, media io.Reader, filename string) (*model.Transcript, error) {
	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.model,
		Reader:   media,
		FilePath: filename,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("transcription API: %w", err)
	}

	transcript := &model.Transcript{
		Text:         strings.TrimSpace(resp.Text),
		LanguageCode: resp.Language,
	}
	for _, s := range resp.Segments {
		transcript.Segments = append(transcript.Segments, model.Segment{
			StartSecond: s.Start,
			EndSecond:   s.End,
			Text:        strings.TrimSpace(s.Text),
		})
	}

	return transcript, nil
}
