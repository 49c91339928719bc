package smoketest

// HTTP status code constants.
const (
	StatusOK       = 200
	StatusNotFound = 404
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	PercentageMultiplier = 100
	aggregateTolerance   = 1e-9
)
