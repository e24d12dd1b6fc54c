package trace

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Format is the encoding of journal lines.
type Format uint8

const (
	FormatAuto   Format = iota // text, or NDJSON for *.ndjson and *.jsonl files
	FormatText
	FormatNDJSON
)

// ParseFormat converts a flag value.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	}
	return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson)", s)
}

// Resolve picks a concrete format for output path.
func (f Format) Resolve(path string) Format {
	if f != FormatAuto {
		return f
	}
	if strings.HasSuffix(path, ".ndjson") || strings.HasSuffix(path, ".jsonl") {
		return FormatNDJSON
	}
	return FormatText
}

var kindMarks = [...]string{KindStart: "▶", KindFinish: "■", KindNote: "·", KindPulse: "…"}

// Encode renders ev as one line in format.
func Encode(ev *Event, format Format) []byte {
	if format == FormatNDJSON {
		data, err := json.Marshal(ev)
		if err != nil {
			return nil
		}
		return append(data, '\n')
	}

	// 15:04:05.000 stage   ▶ compile {host=java unit=Main} ok 1.2s
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %-7s ", ev.At.Format("15:04:05.000"), ev.Layer)
	if int(ev.Kind) < len(kindMarks) && kindMarks[ev.Kind] != "" {
		sb.WriteString(kindMarks[ev.Kind])
		sb.WriteByte(' ')
	}
	sb.WriteString(ev.Step)
	if attrs := ev.Attrs.text(); attrs != "" {
		sb.WriteString(" {")
		sb.WriteString(attrs)
		sb.WriteByte('}')
	}
	if ev.Outcome != "" {
		sb.WriteByte(' ')
		sb.WriteString(ev.Outcome)
	}
	if ev.Kind == KindFinish {
		sb.WriteByte(' ')
		sb.WriteString(ev.Elapsed.Round(time.Microsecond).String())
	}
	sb.WriteByte('\n')
	return []byte(sb.String())
}

func (a Attrs) text() string {
	var parts []string
	for _, kv := range [...][2]string{{"host", a.Host}, {"unit", a.Unit}, {"entry", a.Entry}} {
		if kv[1] != "" {
			parts = append(parts, kv[0]+"="+kv[1])
		}
	}
	return strings.Join(parts, " ")
}
