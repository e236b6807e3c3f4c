package data

import "time"

// SequenceProvider is the interface which all data types sent to Exporters should implement
type SequenceProvider interface {
	Sequence() uint64
	Empty() bool
}

// InitProvider is the interface that can be used when initializing to get common run
// related variables
type InitProvider interface {
	// StartTime is the wall clock time at which the run started. It is shared by
	// every plugin so file names and logs agree on a single timestamp.
	StartTime() time.Time
	// NextSequence is the first batch sequence the importer will be asked for.
	NextSequence() uint64
}

// Record is a single row of imported data, keyed by field name.
type Record map[string]interface{}

// Batch is provided to the Exporter on each sequence.
type Batch struct {
	// Seq is the 1-based position of the batch in the run, a page number for paginated sources.
	Seq uint64 `json:"seq"`

	// Records are tabular rows. Processors may rewrite them in place.
	Records []Record `json:"records,omitempty"`

	// Links are every entry observed in the source for this batch, in source order.
	Links []string `json:"links,omitempty"`

	// Delta is the subset of Links that still has to be synchronized.
	Delta []string `json:"delta,omitempty"`
}

// Sequence returns the sequence to which the Batch corresponds
func (b Batch) Sequence() uint64 {
	return b.Seq
}

// Empty returns whether the Batch carries any records or links.
func (b Batch) Empty() bool {
	return len(b.Records) == 0 && len(b.Links) == 0
}
