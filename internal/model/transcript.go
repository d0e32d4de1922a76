package model

// Segment is one time-aligned slice of the transcript.
// Segments are ordered by start time and each satisfies Start <= End.
type Segment struct {
	StartSecond float64 `json:"start_second"`
	EndSecond   float64 `json:"end_second"`
	Text        string  `json:"text"`
}

// Transcript is the speech-to-text output for a piece of media.
// Absence of a transcript (nil pointer in the report) is a valid state,
// not an error: transcription may be skipped or may have failed.
type Transcript struct {
	Text         string    `json:"text"`
	Segments     []Segment `json:"segments,omitempty"`
	LanguageCode string    `json:"language_code,omitempty"`
}
