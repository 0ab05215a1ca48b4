package digest

// ProgressReporter receives run progress callbacks. The CLI installs a
// progress-bar implementation; everything else uses NoopProgress.
type ProgressReporter interface {
	OnDiscoveryStart()
	OnDiscoveryComplete(files int)
	OnFileProcessingStart(totalFiles int)
	OnFileProcessed(file string, changed bool)
	OnComplete(stats *RunStats)
}

type noopProgress struct{}

func (noopProgress) OnDiscoveryStart()            {}
func (noopProgress) OnDiscoveryComplete(int)      {}
func (noopProgress) OnFileProcessingStart(int)    {}
func (noopProgress) OnFileProcessed(string, bool) {}
func (noopProgress) OnComplete(*RunStats)         {}

// NoopProgress returns a reporter that discards all callbacks.
func NoopProgress() ProgressReporter {
	return noopProgress{}
}
