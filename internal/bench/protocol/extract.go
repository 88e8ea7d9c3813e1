package protocol

import (
	"bufio"
	"encoding/json"
	"errors"
	"math"
	"strings"
)

// ErrNoRecord means the captured output contained no decodable protocol
// record at all.
var ErrNoRecord = errors.New("no protocol record in worker output")

// MaxDetailLen bounds how much raw worker output is carried into a
// diagnostic detail.
const MaxDetailLen = 2048

const maxLineLen = 1 << 20

// Extract scans captured worker stdout for protocol records and returns
// the last one. Workers run inside environments we do not control, and
// their libraries print banners, deprecation warnings and progress lines
// to the same stream; some of that noise even looks like JSON. The last
// schema-matching record wins because the worker prints its payload right
// before exiting.
func Extract(raw string) (*Record, error) {
	var last *Record

	sc := bufio.NewScanner(strings.NewReader(raw))
	sc.Buffer(make([]byte, 0, 64*1024), maxLineLen)
	for sc.Scan() {
		if rec := decodeLine(sc.Text()); rec != nil {
			last = rec
		}
	}

	if last == nil {
		return nil, ErrNoRecord
	}
	return last, nil
}

// decodeLine returns the protocol record embedded in one output line, or
// nil if the line holds none. A line qualifies when it carries a JSON
// object with an "mlip" name and at least one payload field; payload
// fields of the wrong type are kept absent so the caller can flag the
// record as malformed rather than silently skipping it.
func decodeLine(line string) *Record {
	fields := objectFields(line)
	if fields == nil {
		return nil
	}

	rawName, ok := fields["mlip"]
	if !ok {
		return nil
	}
	var rec Record
	if err := json.Unmarshal(rawName, &rec.MLIP); err != nil {
		return nil
	}

	_, hasEnergy := fields["energy"]
	_, hasError := fields["error"]
	if !hasEnergy && !hasError {
		return nil
	}

	rec.Energy = decodeFloat(fields["energy"])
	rec.Time = decodeFloat(fields["time"])
	if raw, ok := fields["error"]; ok {
		var msg string
		if err := json.Unmarshal(raw, &msg); err == nil {
			rec.Error = &msg
		}
	}
	return &rec
}

// objectFields pulls the JSON object out of one output line. The widest
// brace slice is tried first; when leading noise itself contains braces
// ("step {1} done {...}") that slice is not valid JSON, so the scan
// retries from each later opening brace until one decodes.
func objectFields(line string) map[string]json.RawMessage {
	end := strings.LastIndex(line, "}")
	if end <= 0 {
		return nil
	}

	for off := 0; off < end; {
		rel := strings.Index(line[off:end], "{")
		if rel < 0 {
			return nil
		}
		start := off + rel
		var fields map[string]json.RawMessage
		if err := json.Unmarshal([]byte(line[start:end+1]), &fields); err == nil {
			return fields
		}
		off = start + 1
	}
	return nil
}

func decodeFloat(raw json.RawMessage) *float64 {
	if raw == nil {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil
	}
	return &f
}

// NumbersValid reports whether the record carries a finite energy and a
// finite elapsed time, the minimum for a usable success payload.
func (r *Record) NumbersValid() bool {
	return finite(r.Energy) && finite(r.Time)
}

func finite(f *float64) bool {
	return f != nil && !math.IsNaN(*f) && !math.IsInf(*f, 0)
}

// TruncateDetail caps raw output for inclusion in a diagnostic.
func TruncateDetail(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) <= MaxDetailLen {
		return raw
	}
	return raw[:MaxDetailLen] + " ...[truncated]"
}
