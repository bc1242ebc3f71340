package services

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yaskovbs/tube2blog-backend/errs"
	"github.com/yaskovbs/tube2blog-backend/models"
)

// VideoRenderer produces short clips from a procedurally built ffmpeg filter
// graph: a solid background whose color is picked from prompt keywords, the
// prompt text drawn line by line, a slow zoom, and an optional input image.
// This is not video synthesis driven by a model; the product ships this
// simplification deliberately and it is preserved here.
type VideoRenderer struct {
	ffmpegPath string
	workDir    string
	logger     zerolog.Logger
}

func NewVideoRenderer(ffmpegPath, workDir string) *VideoRenderer {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &VideoRenderer{
		ffmpegPath: ffmpegPath,
		workDir:    workDir,
		logger:     log.With().Str("component", "videoRenderer").Logger(),
	}
}

type resolution struct {
	width     int
	height    int
	frameRate int
}

var resolutions = map[string]resolution{
	"480p":  {854, 480, 25},
	"720p":  {1280, 720, 30},
	"1080p": {1920, 1080, 30},
	"1440p": {2560, 1440, 24},
}

func parseResolution(name string) resolution {
	if res, ok := resolutions[name]; ok {
		return res
	}
	return resolutions["720p"]
}

// estimateDuration keeps clips between 10 and 30 seconds, growing with the
// amount of supplied content.
func estimateDuration(req models.VideoRequest) int {
	duration := 10
	if len(req.Prompt) > 50 {
		duration += 5
	}
	if len(req.ImageBytes) > 0 {
		duration += 5
	}
	if len(req.LastFrame) > 0 {
		duration += 5
	}
	if duration > 30 {
		duration = 30
	}
	return duration
}

// backgroundColor picks the base canvas color from prompt keywords.
func backgroundColor(prompt string) string {
	lower := strings.ToLower(prompt)
	switch {
	case strings.Contains(lower, "dark"):
		return "#000000"
	case strings.Contains(lower, "bright"):
		return "#ffffff"
	case strings.Contains(lower, "blue"):
		return "#001122"
	default:
		return "#1a1a1a"
	}
}

// wrapPromptLines splits the prompt into lines that fit the frame width for
// the computed font size.
func wrapPromptLines(prompt string, width, fontSize int) []string {
	maxChars := width / (fontSize * 6 / 10)
	if maxChars < 1 {
		maxChars = 1
	}

	var lines []string
	var current strings.Builder
	for _, word := range strings.Fields(prompt) {
		if current.Len() > 0 && current.Len()+1+len(word) > maxChars {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}

func fontSizeFor(width int) int {
	size := width / 30
	if size < 24 {
		size = 24
	}
	if size > 80 {
		size = 80
	}
	return size
}

func escapeDrawtext(text string) string {
	text = strings.ReplaceAll(text, `\`, `\\`)
	text = strings.ReplaceAll(text, `'`, `\'`)
	text = strings.ReplaceAll(text, `:`, `\:`)
	return text
}

// textOverlayFilters renders the wrapped prompt lines centered on the frame,
// each line fading in on its own schedule.
func textOverlayFilters(prompt string, res resolution, duration int) []string {
	fontSize := fontSizeFor(res.width)
	lines := wrapPromptLines(prompt, res.width, fontSize)
	if len(lines) == 0 {
		return nil
	}

	filters := make([]string, 0, len(lines))
	for i, line := range lines {
		yPos := res.height/2 - (len(lines)-1)*fontSize/2 + i*fontSize*12/10
		startTime := float64(duration-5) * float64(i) / float64(len(lines))
		if startTime < 0 {
			startTime = 0
		}
		filters = append(filters, fmt.Sprintf(
			"drawtext=fontsize=%d:fontcolor=white:borderw=3:bordercolor=black:x=(w-text_w)/2:y=%d:text='%s':enable='between(t,%.2f,%d)'",
			fontSize, yPos, escapeDrawtext(line), startTime, duration))
	}
	return filters
}

// animationFilters adds the slow zoom that keeps static frames alive.
func animationFilters(res resolution) []string {
	return []string{fmt.Sprintf(
		"zoompan=z='min(max(zoom,pzoom)+0.0015,1.5)':x='iw/2-(iw/zoom/2)':y='ih/2-(ih/zoom/2)':d=1:s=%dx%d",
		res.width, res.height)}
}

// buildFilterGraph assembles the full -vf argument for a request.
func buildFilterGraph(req models.VideoRequest, res resolution, duration int) string {
	var filters []string
	filters = append(filters, textOverlayFilters(req.Prompt, res, duration)...)
	filters = append(filters, animationFilters(res)...)
	return strings.Join(filters, ",")
}

// Render produces an mp4 file and returns its path. The caller owns the file.
func (v *VideoRenderer) Render(ctx context.Context, req models.VideoRequest) (string, error) {
	if strings.TrimSpace(req.Prompt) == "" && len(req.ImageBytes) == 0 {
		return "", errs.NewInvalidInputError("prompt", "a prompt or an input image is required")
	}

	res := parseResolution(req.Resolution)
	duration := estimateDuration(req)
	outPath := filepath.Join(v.workDir, fmt.Sprintf("clip-%s.mp4", uuid.NewString()))

	args := []string{
		"-f", "lavfi",
		"-i", fmt.Sprintf("color=c=%s:s=%dx%d:d=%d", backgroundColor(req.Prompt), res.width, res.height, duration),
	}

	// An input image becomes a scaled, padded overlay source.
	var imagePath string
	if len(req.ImageBytes) > 0 {
		imagePath = filepath.Join(v.workDir, fmt.Sprintf("input-%s%s", uuid.NewString(), extensionFor(req.ImageMime)))
		if err := os.WriteFile(imagePath, req.ImageBytes, 0o644); err != nil {
			return "", errs.NewInternalErrorWithCause("write input image", err)
		}
		defer os.Remove(imagePath)

		args = append(args,
			"-loop", "1", "-t", fmt.Sprintf("%d", duration), "-i", imagePath,
			"-filter_complex", fmt.Sprintf(
				"[1:v]scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1[img];[0:v][img]overlay,%s",
				res.width, res.height, res.width, res.height, buildFilterGraph(req, res, duration)),
		)
	} else {
		args = append(args, "-vf", buildFilterGraph(req, res, duration))
	}

	args = append(args,
		"-c:v", "libx264",
		"-preset", "medium",
		"-crf", "23",
		"-pix_fmt", "yuv420p",
		"-r", fmt.Sprintf("%d", res.frameRate),
		"-movflags", "+faststart",
		"-y",
		outPath,
	)

	start := time.Now()
	cmd := exec.CommandContext(ctx, v.ffmpegPath, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		v.logger.Error().Err(err).Str("output", tail(string(output), 2048)).Msg("ffmpeg failed")
		os.Remove(outPath)
		return "", errs.NewServiceUnavailableError("video renderer", err)
	}

	v.logger.Info().
		Str("path", outPath).
		Int("durationSeconds", duration).
		Dur("renderTime", time.Since(start)).
		Msg("rendered clip")
	return outPath, nil
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	default:
		return ".png"
	}
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
