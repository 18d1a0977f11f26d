package cpuprofile

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"

	gojson "github.com/goccy/go-json"
)

// ErrNoSamples is returned when a trace contains no CPU profile samples.
var ErrNoSamples = errors.New("no CPU profile samples found")

const profileChunkEvent = "ProfileChunk"

type (
	traceFile struct {
		TraceEvents []traceEvent `json:"traceEvents"`
	}

	traceEvent struct {
		Name string            `json:"name"`
		Args gojson.RawMessage `json:"args,omitempty"`
	}

	chunkArgs struct {
		Data struct {
			CPUProfile struct {
				Nodes   []chunkNode `json:"nodes"`
				Samples []int64     `json:"samples"`
			} `json:"cpuProfile"`
			TimeDeltas []int64 `json:"timeDeltas"`
		} `json:"data"`
	}

	chunkNode struct {
		ID        int64 `json:"id"`
		CallFrame struct {
			FunctionName *string `json:"functionName"`
			URL          string  `json:"url"`
			LineNumber   *int64  `json:"lineNumber"`
			ColumnNumber *int64  `json:"columnNumber"`
			CodeType     string  `json:"codeType"`
		} `json:"callFrame"`
		Parent int64 `json:"parent"`
	}
)

// Load reads the trace at path. Gzip-compressed traces are detected by their
// magic bytes and decompressed transparently.
func Load(path string) (*Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open trace: %w", err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	var r io.Reader = br
	if magic, err := br.Peek(2); err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("cannot create gzip reader: %w", err)
		}
		defer gz.Close()
		r = gz
	}
	return Decode(r)
}

// Decode parses a Chrome trace from r and merges the CPU profile of every
// ProfileChunk event. Both the object form ({"traceEvents": [...]}) and the
// bare array form of the trace format are accepted.
func Decode(r io.Reader) (*Profile, error) {
	br := bufio.NewReader(r)
	first, err := firstNonSpace(br)
	if err != nil {
		return nil, fmt.Errorf("cannot read trace: %w", err)
	}

	var events []traceEvent
	dec := gojson.NewDecoder(br)
	if first == '[' {
		err = dec.Decode(&events)
	} else {
		var tf traceFile
		err = dec.Decode(&tf)
		events = tf.TraceEvents
	}
	if err != nil {
		return nil, fmt.Errorf("cannot parse trace: %w", err)
	}

	p := &Profile{Nodes: make(map[int64]Node)}
	for i, ev := range events {
		if ev.Name != profileChunkEvent || len(ev.Args) == 0 {
			continue
		}
		var args chunkArgs
		if err := gojson.Unmarshal(ev.Args, &args); err != nil {
			return nil, fmt.Errorf("cannot parse %s event %d: %w", profileChunkEvent, i, err)
		}
		p.addChunk(&args)
	}

	if len(p.Samples) == 0 {
		return nil, ErrNoSamples
	}
	return p, nil
}

func (p *Profile) addChunk(args *chunkArgs) {
	for _, n := range args.Data.CPUProfile.Nodes {
		node := Node{
			ID:           n.ID,
			FunctionName: "(unknown)",
			URL:          n.CallFrame.URL,
			LineNumber:   -1,
			ColumnNumber: -1,
			CodeType:     n.CallFrame.CodeType,
			Parent:       n.Parent,
		}
		if n.CallFrame.FunctionName != nil {
			node.FunctionName = *n.CallFrame.FunctionName
		}
		if n.CallFrame.LineNumber != nil {
			node.LineNumber = *n.CallFrame.LineNumber
		}
		if n.CallFrame.ColumnNumber != nil {
			node.ColumnNumber = *n.CallFrame.ColumnNumber
		}
		p.Nodes[n.ID] = node
	}
	p.Samples = append(p.Samples, args.Data.CPUProfile.Samples...)
	p.TimeDeltas = append(p.TimeDeltas, args.Data.TimeDeltas...)
}

func firstNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b, br.UnreadByte()
	}
}
