package services

import "time"

// Recorder receives operational measurements from services.
// *metrics.Metrics satisfies it.
type Recorder interface {
	RecordSearch(mode, engine string, duration time.Duration)
	RecordFallback(reason string)
	RecordIngest(status string)
	RecordMirror(status string)
	SetDocuments(n int)
}

type nopRecorder struct{}

func (nopRecorder) RecordSearch(string, string, time.Duration) {}
func (nopRecorder) RecordFallback(string)                      {}
func (nopRecorder) RecordIngest(string)                        {}
func (nopRecorder) RecordMirror(string)                        {}
func (nopRecorder) SetDocuments(int)                           {}

func recorderOrNop(r Recorder) Recorder {
	if r == nil {
		return nopRecorder{}
	}
	return r
}
