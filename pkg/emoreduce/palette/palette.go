// Package palette holds the fixed emotion to display color table.
package palette

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultColor is returned for any emotion not in the table (silver).
const DefaultColor = "#C0C0C0"

// Entry is one emotion with its color
type Entry struct {
	Emotion string
	Hex     string
	Name    string // human color name
	Group   string
}

// Emotion groups
const (
	GroupPositive  = "positive"
	GroupApproval  = "approval"
	GroupCognitive = "cognitive"
	GroupNegative  = "negative"
	GroupComplex   = "complex"
	GroupNeutral   = "neutral"
)

var entries = []Entry{
	{"joy", "#FFD700", "Gold", GroupPositive},
	{"love", "#FF69B4", "Hot Pink", GroupPositive},
	{"excitement", "#FF4500", "Orange Red", GroupPositive},
	{"amusement", "#32CD32", "Lime Green", GroupPositive},
	{"gratitude", "#DDA0DD", "Plum", GroupPositive},
	{"admiration", "#4169E1", "Royal Blue", GroupPositive},
	{"optimism", "#FFB347", "Peach", GroupPositive},
	{"pride", "#9370DB", "Medium Purple", GroupPositive},
	{"relief", "#98FB98", "Pale Green", GroupPositive},

	{"approval", "#87CEEB", "Sky Blue", GroupApproval},
	{"caring", "#F0E68C", "Khaki", GroupApproval},

	{"curiosity", "#40E0D0", "Turquoise", GroupCognitive},
	{"realization", "#DA70D6", "Orchid", GroupCognitive},
	{"surprise", "#FFFF00", "Yellow", GroupCognitive},
	{"confusion", "#D3D3D3", "Light Gray", GroupCognitive},

	{"anger", "#DC143C", "Crimson", GroupNegative},
	{"annoyance", "#FF6347", "Tomato", GroupNegative},
	{"disappointment", "#4682B4", "Steel Blue", GroupNegative},
	{"disapproval", "#708090", "Slate Gray", GroupNegative},
	{"sadness", "#191970", "Midnight Blue", GroupNegative},
	{"grief", "#2F4F4F", "Dark Slate Gray", GroupNegative},
	{"fear", "#8B0000", "Dark Red", GroupNegative},
	{"nervousness", "#F4A460", "Sandy Brown", GroupNegative},

	{"disgust", "#556B2F", "Dark Olive Green", GroupComplex},
	{"embarrassment", "#CD5C5C", "Indian Red", GroupComplex},
	{"remorse", "#800080", "Purple", GroupComplex},
	{"desire", "#FF1493", "Deep Pink", GroupComplex},

	{"neutral", "#C0C0C0", "Silver", GroupNeutral},
}

var byEmotion = func() map[string]string {
	m := make(map[string]string, len(entries))
	for _, e := range entries {
		m[e.Emotion] = e.Hex
	}
	return m
}()

// Lookup returns the color for emotion, or DefaultColor if it is unknown
func Lookup(emotion string) string {
	if hex, ok := byEmotion[emotion]; ok {
		return hex
	}
	return DefaultColor
}

// Entries returns a copy of the table in its fixed order
func Entries() []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// Len returns the number of mapped emotions
func Len() int {
	return len(entries)
}

// Colors marshals as a JSON object that keeps table order
type Colors []Entry

// MarshalJSON implements json.Marshaler
func (c Colors) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Emotion)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e.Hex)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Mapping is the structured color artifact
type Mapping struct {
	EmotionColors Colors `json:"emotion_colors"`
	TotalEmotions int    `json:"total_emotions"`
}

// NewMapping wraps the full table
func NewMapping() Mapping {
	return Mapping{
		EmotionColors: Colors(Entries()),
		TotalEmotions: Len(),
	}
}

// WriteJSON writes the mapping to path with 2-space indentation
func WriteJSON(path string) error {
	out, err := json.MarshalIndent(NewMapping(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal mapping: %w", err)
	}
	out = append(out, '\n')
	return writeFile(path, out)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
