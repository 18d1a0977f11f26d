package flamegraph

import (
	"errors"
	"fmt"
	"html"
	"io"
	"sort"
	"strings"

	"github.com/danpilch/gfxprof/pkg/output"
)

// ErrNoStacks is returned when there is nothing to draw.
var ErrNoStacks = errors.New("no stacks to render")

// SVGOptions configures the flame graph SVG output.
type SVGOptions struct {
	Title       string
	Width       int
	ColorScheme string // "hot" or "cold"
}

// DefaultSVGOptions returns sensible defaults.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Title:       "Flame Graph",
		Width:       1200,
		ColorScheme: "hot",
	}
}

const (
	frameHeight  = 16
	fontSize     = 12
	headerHeight = 40
	margin       = 10
)

type frame struct {
	name     string
	value    int64
	children map[string]*frame
}

func newFrame(name string) *frame {
	return &frame{
		name:     name,
		children: make(map[string]*frame),
	}
}

// buildTree merges folded stacks into a frame tree under a single "all" root.
func buildTree(stacks map[string]int64) *frame {
	root := newFrame("all")
	for stack, weight := range stacks {
		if weight <= 0 || stack == "" {
			continue
		}
		node := root
		for _, name := range strings.Split(stack, ";") {
			child, ok := node.children[name]
			if !ok {
				child = newFrame(name)
				node.children[name] = child
			}
			child.value += weight
			node = child
		}
		root.value += weight
	}
	return root
}

// GenerateSVG renders folded stacks weighted in microseconds as an SVG flame
// graph.
func GenerateSVG(stacks map[string]int64, svg io.Writer, opts SVGOptions) error {
	if opts.Width == 0 {
		opts.Width = 1200
	}

	root := buildTree(stacks)
	if root.value == 0 {
		return ErrNoStacks
	}

	height := (maxDepth(root, 0)+2)*frameHeight + headerHeight + 20

	_, err := fmt.Fprintf(svg, `<?xml version="1.0" standalone="no"?>
<!DOCTYPE svg PUBLIC "-//W3C//DTD SVG 1.1//EN" "http://www.w3.org/Graphics/SVG/1.1/DTD/svg1.1.dtd">
<svg version="1.1" width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">
<style>
  .func:hover { stroke:black; stroke-width:0.5; cursor:pointer; }
  text { font-family: monospace; font-size: %dpx; }
</style>
<rect x="0" y="0" width="%d" height="%d" fill="white"/>
<text x="%d" y="20" text-anchor="middle" style="font-size:16px; font-weight:bold;">%s</text>
<text x="%d" y="35" text-anchor="middle" style="font-size:12px; fill:#666;">(%s sampled)</text>
`,
		opts.Width, height, fontSize,
		opts.Width, height,
		opts.Width/2, html.EscapeString(opts.Title),
		opts.Width/2, output.FormatMicros(root.value))
	if err != nil {
		return fmt.Errorf("cannot write svg: %w", err)
	}

	r := &renderer{w: svg, total: root.value, scheme: opts.ColorScheme, baseY: height - 20}
	r.frame(root, margin, opts.Width-2*margin, 0)
	if r.err != nil {
		return fmt.Errorf("cannot write svg: %w", r.err)
	}

	if _, err := fmt.Fprintln(svg, "</svg>"); err != nil {
		return fmt.Errorf("cannot write svg: %w", err)
	}
	return nil
}

type renderer struct {
	w      io.Writer
	total  int64
	scheme string
	baseY  int
	err    error
}

func (r *renderer) printf(format string, args ...any) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.w, format, args...)
}

func (r *renderer) frame(f *frame, x, width, depth int) {
	if width < 1 || f.value == 0 {
		return
	}

	y := r.baseY - depth*frameHeight
	red, green, blue := frameColor(depth, r.scheme)
	name := output.DisplayName(f.name)

	r.printf(`<g class="func">
<rect x="%d" y="%d" width="%d" height="%d" fill="rgb(%d,%d,%d)" rx="1"/>
`, x, y-frameHeight, width, frameHeight-1, red, green, blue)

	if width > 40 {
		maxChars := (width - 4) / 7
		label := ""
		if maxChars > 3 {
			label = output.Truncate(name, maxChars)
		}
		if label != "" {
			r.printf(`<text x="%d" y="%d" fill="black">%s</text>
`, x+2, y-4, html.EscapeString(label))
		}
	}

	r.printf(`<title>%s (%s, %.1f%%)</title>
</g>
`, html.EscapeString(name), output.FormatMicros(f.value), output.Percent(f.value, r.total))

	childNames := make([]string, 0, len(f.children))
	for n := range f.children {
		childNames = append(childNames, n)
	}
	sort.Strings(childNames)

	childX := x
	for _, n := range childNames {
		child := f.children[n]
		childWidth := int(float64(width) * float64(child.value) / float64(f.value))
		if childWidth < 1 {
			childWidth = 1
		}
		r.frame(child, childX, childWidth, depth+1)
		childX += childWidth
	}
}

func frameColor(depth int, scheme string) (int, int, int) {
	switch scheme {
	case "cold":
		g := 50 + (depth*30)%150
		b := 150 + (depth*20)%100
		return 30, g, b
	default: // "hot"
		r := 200 + (depth*15)%55
		g := 50 + (depth*40)%150
		return r, g, 30
	}
}

func maxDepth(f *frame, depth int) int {
	max := depth
	for _, child := range f.children {
		if d := maxDepth(child, depth+1); d > max {
			max = d
		}
	}
	return max
}
