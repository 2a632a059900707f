package tuner

import "runtime"

// defaultTotalRAM is the fallback total RAM value when detection fails.
const defaultTotalRAM = 8 * 1024 * 1024 * 1024

// fallbackResources returns conservative defaults used when detection fails.
func fallbackResources() SystemResources {
	return SystemResources{
		CPUCores:     runtime.NumCPU(),
		TotalRAM:     defaultTotalRAM,
		AvailableRAM: defaultTotalRAM / 2,
	}
}
