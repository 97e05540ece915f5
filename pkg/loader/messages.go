// Package loader reads chat-export JSON into the engine's message records.
// Real-world exports are partially malformed, so records with missing or
// unparseable timestamps are skipped and counted, never fatal.
package loader

import (
	"fmt"
	"io"
	"os"
	"time"

	json "github.com/goccy/go-json"

	"github.com/Loganavter/Tkonverter-sub001/pkg/model"
)

// dateLayouts covers the timestamp shapes seen in chat exports: bare ISO
// local time, and RFC 3339 with or without offset.
var dateLayouts = []string{
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Export mirrors the top-level chat-export document.
type Export struct {
	Name     string       `json:"name"`
	Type     string       `json:"type"`
	Messages []rawMessage `json:"messages"`
}

type rawMessage struct {
	Date string          `json:"date"`
	From string          `json:"from"`
	Text json.RawMessage `json:"text"`
}

// Result carries the parsed messages plus load diagnostics.
type Result struct {
	ChatName     string
	Messages     []model.Message
	SkippedCount int
}

// LoadMessages reads and parses an export file.
func LoadMessages(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loader: opening export: %w", err)
	}
	defer f.Close()
	return ParseMessages(f)
}

// ParseMessages decodes an export document from r. Messages whose date is
// absent or unparseable are dropped and reflected in SkippedCount.
func ParseMessages(r io.Reader) (*Result, error) {
	var export Export
	dec := json.NewDecoder(r)
	if err := dec.Decode(&export); err != nil {
		return nil, fmt.Errorf("loader: decoding export: %w", err)
	}

	result := &Result{ChatName: export.Name}
	for _, raw := range export.Messages {
		date, ok := parseDate(raw.Date)
		if !ok {
			result.SkippedCount++
			continue
		}
		result.Messages = append(result.Messages, model.Message{
			Date:   date,
			Author: raw.From,
			Text:   flattenText(raw.Text),
		})
	}
	return result, nil
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// flattenText collapses the export's text field, which is either a plain
// string or an array of strings and entity objects, into plain text.
func flattenText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var parts []any
	if err := json.Unmarshal(raw, &parts); err != nil {
		return ""
	}
	out := ""
	for _, p := range parts {
		switch v := p.(type) {
		case string:
			out += v
		case map[string]any:
			if t, ok := v["text"].(string); ok {
				out += t
			}
		}
	}
	return out
}
