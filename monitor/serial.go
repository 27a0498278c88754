package monitor

import (
	"github.com/pkg/errors"
	"github.com/tarm/serial"
)

// DefaultBaud matches the firmware consoles. USB CDC ignores it.
const DefaultBaud = 115200

// OpenSerial opens a board console for reading. Reads block until data
// arrives; close the port to unblock them.
func OpenSerial(device string, baud int) (*serial.Port, error) {
	if baud <= 0 {
		baud = DefaultBaud
	}
	port, err := serial.OpenPort(&serial.Config{
		Name: device,
		Baud: baud,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open serial port %s", device)
	}
	return port, nil
}
