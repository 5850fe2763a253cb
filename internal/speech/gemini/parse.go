package gemini

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/subflow/internal/speech"
)

var segmentSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"start":   {Type: genai.TypeNumber},
			"end":     {Type: genai.TypeNumber},
			"speaker": {Type: genai.TypeString},
			"text":    {Type: genai.TypeString},
		},
		Required: []string{"start", "end", "text"},
	},
}

type rawSegment struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Speaker string  `json:"speaker"`
	Text    string  `json:"text"`
}

// parseSegments decodes the model output. It accepts a bare array or an
// object with a "segments" field, optionally inside a markdown code fence.
func parseSegments(text string) ([]speech.Segment, error) {
	body := stripFence(text)
	if body == "" {
		return nil, fmt.Errorf("empty response")
	}

	var raw []rawSegment
	if strings.HasPrefix(body, "{") {
		var wrapped struct {
			Segments []rawSegment `json:"segments"`
		}
		if err := json.Unmarshal([]byte(body), &wrapped); err != nil {
			return nil, err
		}
		raw = wrapped.Segments
	} else if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, err
	}

	segs := make([]speech.Segment, 0, len(raw))
	for _, r := range raw {
		txt := strings.TrimSpace(r.Text)
		if txt == "" {
			continue
		}
		start := secondsToDuration(r.Start)
		end := secondsToDuration(r.End)
		if end < start {
			end = start
		}
		segs = append(segs, speech.Segment{
			Start:   start,
			End:     end,
			Speaker: strings.TrimSpace(r.Speaker),
			Text:    txt,
		})
	}

	sort.SliceStable(segs, func(i, j int) bool { return segs[i].Start < segs[j].Start })
	return segs, nil
}

func stripFence(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func secondsToDuration(v float64) time.Duration {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return time.Duration(v * float64(time.Second)).Round(time.Millisecond)
}
