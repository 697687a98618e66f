package archiver

const (
	// LogContentType is the content type of every archived object.
	LogContentType = "text/plain"

	objectDateLayout = "02-01-2006"
	objectTimeLayout = "15-04-05"
	objectExtension  = ".log"
	previousSegment  = "previous"

	defaultMaxConcurrentWorkers = 16
	defaultReconcileMaxAttempts = 3

	// discoveryStaleFactor times the discovery interval is how old the last successful
	// discovery may get before the service reports itself unhealthy.
	discoveryStaleFactor = 3
)
