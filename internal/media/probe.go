package media

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/RahulLalwani5726/Stream-X/internal/observability"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Prober reads the duration of a local video file in seconds.
type Prober interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// FFProbe shells out to ffprobe found on PATH.
type FFProbe struct {
	Timeout time.Duration
}

func (p FFProbe) Duration(ctx context.Context, path string) (float64, error) {
	_, span := observability.StartMediaSpan(ctx, "probe")
	defer span.End()

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left < timeout {
			timeout = left
		}
	}

	out, err := ffmpeg.ProbeWithTimeout(path, timeout, ffmpeg.KwArgs{})
	if err != nil {
		span.RecordError(err)
		observability.MediaOperations.WithLabelValues("probe", "error").Inc()
		return 0, errors.WithMessage(err, "ffprobe")
	}
	d, err := parseProbeDuration(out)
	observability.MediaOperations.WithLabelValues("probe", observability.Outcome(err)).Inc()
	return d, err
}

// NopProber reports zero for every file.
type NopProber struct{}

func (NopProber) Duration(context.Context, string) (float64, error) { return 0, nil }

type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType string `json:"codec_type"`
		Duration  string `json:"duration"`
	} `json:"streams"`
}

// parseProbeDuration reads format.duration, falling back to the first video
// stream for containers that only report per-stream durations.
func parseProbeDuration(raw string) (float64, error) {
	var out probeOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return 0, errors.WithMessage(err, "decode ffprobe output")
	}

	candidates := []string{out.Format.Duration}
	for _, s := range out.Streams {
		if s.CodecType == "video" {
			candidates = append(candidates, s.Duration)
		}
	}
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" || c == "N/A" {
			continue
		}
		d, err := strconv.ParseFloat(c, 64)
		if err != nil {
			return 0, errors.WithMessagef(err, "parse duration %q", c)
		}
		if d < 0 {
			return 0, errors.Errorf("negative duration %v", d)
		}
		return d, nil
	}
	return 0, errors.New("ffprobe reported no duration")
}
