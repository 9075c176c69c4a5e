package pipeline

import "github.com/juliakriv0137/video-analysis-system/pkg/models"

// StubMusicDetector stands in for a real audio classifier. It always
// reports a single plausible segment so downstream consumers exercise the
// music fields end to end.
//
// TODO: replace with a spectral-flatness classifier once we settle on an
// audio DSP dependency.
type StubMusicDetector struct{}

func (StubMusicDetector) Detect(audioPath string) models.MusicDetection {
	return models.MusicDetection{
		HasMusic: true,
		Segments: []models.MusicSegment{
			{Start: 0, End: 10, Confidence: 0.8},
		},
	}
}
