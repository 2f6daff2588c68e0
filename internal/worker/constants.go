package worker

// LogMsgWorkerJobFailed is logged when a worker fails to process a job
const LogMsgWorkerJobFailed = "Worker job failed"

// Expiry sweep log messages
const (
	LogMsgSweepStarting       = "Expiry sweep starting"
	LogMsgSweepCompleted      = "Expiry sweep completed"
	LogMsgSweepListFailed     = "Failed to list collections for sweep"
	LogMsgSweepUserFailed     = "Expiry sweep failed for user"
	LogMsgSweepShutdown       = "Expiry sweep worker shutting down"
	LogMsgSweepShutdownDone   = "Expiry sweep worker shutdown complete"
	LogMsgSweepShutdownFailed = "Expiry sweep worker shutdown timeout"
)

// Test constants
const (
	TestWorkerCount           = 2
	TestQueueSize             = 10
	TestExpectedJobCount      = 2
	TestWorkerProcessWaitTime = 100 // milliseconds
)
