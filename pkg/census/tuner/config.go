package tuner

// Worker configuration limits.
const (
	// MaxWorkers caps explicit worker overrides.
	MaxWorkers = 64

	// minWorkers is the floor for the automatic worker count.
	minWorkers = 2

	// autoWorkerCap bounds the automatic worker count. Directory listing
	// saturates the disk long before it saturates large core counts.
	autoWorkerCap = 8

	// minQueueSize is the minimum work-queue capacity.
	minQueueSize = 100

	// maxQueueSize is the maximum work-queue capacity.
	maxQueueSize = 100000
)

// Memory-based queue sizing constants.
const (
	// bytesPerQueueEntry estimates memory per queued directory path.
	bytesPerQueueEntry = 512

	// queueMemoryFraction is the fraction of available RAM given to the queue.
	queueMemoryFraction = 0.05
)

// OptimalConfig contains the tuned scanner configuration.
type OptimalConfig struct {
	// Workers is the number of directory-scanning workers.
	Workers int

	// QueueSize is the capacity of the directory work queue.
	QueueSize int
}

// Calculate returns optimal configuration based on system resources.
//
// Workers is min(NumCPU, 8) with a floor of 2. QueueSize is derived from
// available RAM and bounded to [100, 100000].
func Calculate(resources SystemResources) OptimalConfig {
	workers := min(resources.CPUCores, autoWorkerCap)
	workers = max(workers, minWorkers)

	return OptimalConfig{
		Workers:   workers,
		QueueSize: calculateQueueSize(resources.AvailableRAM),
	}
}

// CalculateWithOverrides applies a user worker override to the optimal config.
// An override greater than 0 replaces the worker count, capped at MaxWorkers.
// An override of 0 or less keeps the calculated value.
func CalculateWithOverrides(resources SystemResources, workerOverride int) OptimalConfig {
	config := Calculate(resources)

	if workerOverride > 0 {
		config.Workers = min(workerOverride, MaxWorkers)
	}

	return config
}

// Auto detects resources and applies the override in one step.
// Detection failures fall back to defaults rather than failing the scan.
func Auto(workerOverride int) OptimalConfig {
	resources, err := Detect()
	if err != nil || resources.CPUCores <= 0 {
		resources = fallbackResources()
	}
	return CalculateWithOverrides(resources, workerOverride)
}

// calculateQueueSize determines queue size based on available memory.
func calculateQueueSize(availableRAM int64) int {
	queueMemory := float64(availableRAM) * queueMemoryFraction
	entries := int(queueMemory / bytesPerQueueEntry)

	entries = max(entries, minQueueSize)
	entries = min(entries, maxQueueSize)

	return entries
}
