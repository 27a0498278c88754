// Package console formats control frames as debug console lines and parses
// them back on the host side.
//
// A line looks like:
//
//	sample=32768 duty=128 period=256
package console

import (
	"errors"
	"strconv"
	"strings"

	"github.com/harveysanders/potdimmer/control"
)

var ErrMalformed = errors.New("console: malformed frame line")

// AppendFrame appends f as a newline terminated line. It does not allocate
// when buf has room, so it is safe to call from the control loop.
func AppendFrame(buf []byte, f control.Frame) []byte {
	buf = append(buf, "sample="...)
	buf = strconv.AppendUint(buf, uint64(f.Sample), 10)
	buf = append(buf, " duty="...)
	buf = strconv.AppendUint(buf, uint64(f.Duty), 10)
	buf = append(buf, " period="...)
	buf = strconv.AppendUint(buf, uint64(f.Period), 10)
	return append(buf, '\n')
}

// ParseLine parses a line written by AppendFrame. Surrounding whitespace and
// unknown keys are ignored so log lines interleaved by other firmware code
// can be filtered by the caller on the error alone.
func ParseLine(line string) (control.Frame, error) {
	var f control.Frame
	const (
		haveSample = 1 << iota
		haveDuty
		havePeriod
		haveAll = haveSample | haveDuty | havePeriod
	)
	seen := 0
	for _, field := range strings.Fields(line) {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			return f, ErrMalformed
		}
		var dst *uint16
		switch key {
		case "sample":
			dst, seen = &f.Sample, seen|haveSample
		case "duty":
			dst, seen = &f.Duty, seen|haveDuty
		case "period":
			dst, seen = &f.Period, seen|havePeriod
		default:
			continue
		}
		v, err := strconv.ParseUint(value, 10, 16)
		if err != nil {
			return f, ErrMalformed
		}
		*dst = uint16(v)
	}
	if seen != haveAll {
		return f, ErrMalformed
	}
	return f, nil
}
