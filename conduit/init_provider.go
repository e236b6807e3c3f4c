package conduit

import "time"

// PipelineInitProvider run based init provider
type PipelineInitProvider struct {
	startTime    time.Time
	nextSequence *uint64
}

// MakePipelineInitProvider constructs an init provider.
func MakePipelineInitProvider(startTime time.Time, nextSequence *uint64) *PipelineInitProvider {
	return &PipelineInitProvider{
		startTime:    startTime,
		nextSequence: nextSequence,
	}
}

// StartTime produces the run start time
func (a *PipelineInitProvider) StartTime() time.Time {
	return a.startTime
}

// NextSequence provides the next sequence the importer is asked for
func (a *PipelineInitProvider) NextSequence() uint64 {
	return *a.nextSequence
}
