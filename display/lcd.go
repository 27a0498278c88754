package display

import (
	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/hd44780i2c"
)

// Common PCF8574 backpack addresses.
const (
	AddrPCF8574  = 0x27
	AddrPCF8574A = 0x3F
)

// Open configures a 16x2 LCD at addr on bus.
func Open(bus drivers.I2C, addr uint8) *hd44780i2c.Device {
	dev := hd44780i2c.New(bus, addr)
	dev.Configure(hd44780i2c.Config{
		Width:  Columns,
		Height: Rows,
	})
	return &dev
}
