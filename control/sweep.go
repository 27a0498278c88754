package control

// Sweep ramps the output from 0 up to period and back down to 0 in steps
// increments each way, calling pause after every write. It is a bring-up
// check that the output pin and timer are wired before the loop takes over.
func Sweep(out Output, period uint16, steps int, pause func()) error {
	if steps <= 0 {
		steps = 1
	}
	set := func(i int) error {
		if err := out.SetDuty(uint32(period) * uint32(i) / uint32(steps)); err != nil {
			return err
		}
		if pause != nil {
			pause()
		}
		return nil
	}
	for i := 0; i <= steps; i++ {
		if err := set(i); err != nil {
			return err
		}
	}
	for i := steps - 1; i >= 0; i-- {
		if err := set(i); err != nil {
			return err
		}
	}
	return nil
}
