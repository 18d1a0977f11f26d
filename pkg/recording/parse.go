package recording

import (
	"errors"
	"fmt"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// ErrNotFound is returned when the recording file does not exist.
var ErrNotFound = errors.New("file not found")

var (
	frameMarkerRe   = regexp.MustCompile(`D_F(\d+)_\d+`)
	drawRe          = regexp.MustCompile(`\.draw\((\d+),(\d+),(\d+),(\d+)\)`)
	drawIndirectRe  = regexp.MustCompile(`\.drawIndirect\([^,]+,\s*(\d+)\)`)
	dispatchRe      = regexp.MustCompile(`\.dispatchWorkgroups\((\d+),(\d+),(\d+)\)`)
	bufferSizeRe    = regexp.MustCompile(`createBuffer\(\{[^}]*"size":(\d+)[^}]*"label":"([^"]*)"`)
	bufferLabelRe   = regexp.MustCompile(`createBuffer\(\{[^}]*"label":"([^"]*)"[^}]*"size":(\d+)`)
	pipelineLabelRe = regexp.MustCompile(`create(Compute|Render)Pipeline\(\{[^}]*"label":"([^"]*)"`)
)

// ParseFile reads and parses the recording at path.
func ParseFile(path string) (*Recording, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("cannot read recording: %w", err)
	}
	return Parse(string(data)), nil
}

// Parse extracts commands from the text of a recording. Every pattern is
// scanned independently and all matches are kept. Matches whose numbers do
// not fit in an int64 are dropped; a recording with no matches yields an
// empty Recording.
func Parse(content string) *Recording {
	rec := &Recording{}

	maxFrame := int64(-1)
	for _, m := range frameMarkerRe.FindAllStringSubmatch(content, -1) {
		// an index of MaxInt64 has no representable frame count
		if n, ok := parseInt(m[1]); ok && n < math.MaxInt64 && n > maxFrame {
			maxFrame = n
		}
	}
	rec.FrameCount = int(maxFrame + 1)

	for _, m := range drawRe.FindAllStringSubmatch(content, -1) {
		v, ok := parseInts(m[1:])
		if !ok {
			continue
		}
		rec.Draws = append(rec.Draws, DrawCall{
			Kind:          DrawDirect,
			VertexCount:   v[0],
			InstanceCount: v[1],
			FirstVertex:   v[2],
			FirstInstance: v[3],
		})
	}

	for _, m := range drawIndirectRe.FindAllStringSubmatch(content, -1) {
		if offset, ok := parseInt(m[1]); ok {
			rec.Draws = append(rec.Draws, DrawCall{Kind: DrawIndirect, Offset: offset})
		}
	}

	for _, m := range dispatchRe.FindAllStringSubmatch(content, -1) {
		if v, ok := parseInts(m[1:]); ok {
			rec.Dispatches = append(rec.Dispatches, DispatchCall{X: v[0], Y: v[1], Z: v[2]})
		}
	}

	for _, m := range bufferSizeRe.FindAllStringSubmatch(content, -1) {
		if size, ok := parseInt(m[1]); ok {
			rec.Buffers = append(rec.Buffers, BufferRecord{Size: size, Label: m[2]})
		}
	}
	for _, m := range bufferLabelRe.FindAllStringSubmatch(content, -1) {
		if size, ok := parseInt(m[2]); ok {
			rec.Buffers = append(rec.Buffers, BufferRecord{Size: size, Label: m[1]})
		}
	}

	for _, m := range pipelineLabelRe.FindAllStringSubmatch(content, -1) {
		rec.Pipelines = append(rec.Pipelines, PipelineRecord{
			Kind:  PipelineKind(strings.ToLower(m[1])),
			Label: m[2],
		})
	}

	return rec
}

func parseInt(s string) (int64, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	return n, err == nil
}

func parseInts(ss []string) ([]int64, bool) {
	out := make([]int64, len(ss))
	for i, s := range ss {
		n, ok := parseInt(s)
		if !ok {
			return nil, false
		}
		out[i] = n
	}
	return out, true
}
