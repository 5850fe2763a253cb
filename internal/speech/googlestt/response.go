package googlestt

import (
	"strings"
	"time"

	"cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/protobuf/types/known/durationpb"

	"github.com/nguyentantai21042004/subflow/internal/speech"
)

// segmentsFromResponse turns each result into one segment spanning its
// first to last word. Results without word offsets run from the previous
// result's end to their own end time.
func segmentsFromResponse(resp *speechpb.LongRunningRecognizeResponse) []speech.Segment {
	if resp == nil {
		return nil
	}

	var (
		segs    []speech.Segment
		prevEnd time.Duration
	)
	for _, r := range resp.GetResults() {
		alts := r.GetAlternatives()
		if len(alts) == 0 || alts[0] == nil {
			continue
		}
		alt := alts[0]
		text := strings.TrimSpace(alt.GetTranscript())
		if text == "" {
			continue
		}

		start, end := prevEnd, toDuration(r.GetResultEndTime())
		if words := alt.GetWords(); len(words) > 0 {
			start = toDuration(words[0].GetStartTime())
			end = toDuration(words[len(words)-1].GetEndTime())
		}
		if end < start {
			end = start
		}

		segs = append(segs, speech.Segment{
			Start:      start,
			End:        end,
			Text:       text,
			Confidence: float64(alt.GetConfidence()),
		})
		prevEnd = end
	}
	return segs
}

func toDuration(d *durationpb.Duration) time.Duration {
	if d == nil {
		return 0
	}
	return d.AsDuration()
}
