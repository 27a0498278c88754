package display

import (
	"strconv"

	"github.com/harveysanders/potdimmer/control"
	"github.com/harveysanders/potdimmer/sample"
)

// Render lays out a frame as
//
//	V:1.65 50.0%
//	S:32768 D:128
func Render(f control.Frame) Message {
	// Fresh buffers per message: the handler may still be printing the
	// previous one.
	line1 := make([]byte, 0, Columns)
	line1 = append(line1, "V:"...)
	line1 = strconv.AppendFloat(line1, float64(sample.Volts(f.Sample)), 'f', 2, 32)
	line1 = append(line1, ' ')
	line1 = strconv.AppendFloat(line1, float64(sample.Fraction(f.Sample)*100), 'f', 1, 32)
	line1 = append(line1, '%')

	line2 := make([]byte, 0, Columns)
	line2 = append(line2, "S:"...)
	line2 = strconv.AppendUint(line2, uint64(f.Sample), 10)
	line2 = append(line2, " D:"...)
	line2 = strconv.AppendUint(line2, uint64(f.Duty), 10)

	return Message{Line1: line1, Line2: line2}
}

// Forward returns a frame sink that renders each frame onto ch, dropping
// frames while the screen is busy.
func Forward(ch chan<- Message) func(control.Frame) {
	return func(f control.Frame) {
		Offer(ch, Render(f))
	}
}
