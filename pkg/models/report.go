package models

// VideoMetadata holds container-level information probed from a downloaded video
type VideoMetadata struct {
	Duration   float64 `json:"duration"`
	Resolution string  `json:"resolution"`
	Format     string  `json:"format"`
}

// UnknownMetadata is the sentinel returned when probing fails; metadata is
// best-effort and must never abort a run.
func UnknownMetadata() VideoMetadata {
	return VideoMetadata{
		Duration:   0,
		Resolution: "Unknown",
		Format:     "Unknown",
	}
}

// Frame is one extracted frame image on disk
type Frame struct {
	Path      string  `json:"path"`
	Filename  string  `json:"filename"`
	Timestamp float64 `json:"timestamp"`
	Index     int     `json:"index"`
}

// VisionAnalysis is the structured payload returned by the vision model for
// one key frame. Error-shaped payloads carry Error/Message instead of the
// content fields; Raw holds the model output when it could not be parsed.
type VisionAnalysis struct {
	SceneDescription string   `json:"scene_description,omitempty"`
	MainObjects      []string `json:"main_objects,omitempty"`
	Actions          []string `json:"actions,omitempty"`
	DetectedText     string   `json:"detected_text,omitempty"`
	Mood             string   `json:"mood,omitempty"`

	Raw string `json:"raw,omitempty"`

	Error            string `json:"error,omitempty"`
	Message          string `json:"message,omitempty"`
	TechnicalDetails string `json:"technical_details,omitempty"`
}

// IsError reports whether the payload marks a failed analysis
func (v VisionAnalysis) IsError() bool {
	return v.Error != ""
}

// FrameAnalysis is the full analysis of one key frame
type FrameAnalysis struct {
	Timestamp float64        `json:"timestamp"`
	OCRText   string         `json:"ocr_text"`
	Vision    VisionAnalysis `json:"vision_analysis"`
}

// FrameIndexEntry is the lightweight record kept for every dense frame
type FrameIndexEntry struct {
	Timestamp float64 `json:"timestamp"`
	Filename  string  `json:"filename"`
	OCRText   string  `json:"ocr_text"`
}

// MusicSegment is one detected music region
type MusicSegment struct {
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Confidence float64 `json:"confidence"`
}

// MusicDetection holds music-detection results for the audio track
type MusicDetection struct {
	HasMusic bool           `json:"has_music"`
	Segments []MusicSegment `json:"segments"`
}

// AudioAnalysis holds everything derived from the extracted audio track
type AudioAnalysis struct {
	Transcription  string         `json:"transcription"`
	MusicDetection MusicDetection `json:"music_detection"`
}

// SummaryEvent is one entry in the summary's chronology
type SummaryEvent struct {
	Timestamp   string `json:"timestamp"`
	Description string `json:"description"`
}

// MainElements groups the summary's categorized elements
type MainElements struct {
	Characters []string `json:"characters,omitempty"`
	Objects    []string `json:"objects,omitempty"`
	Locations  []string `json:"locations,omitempty"`
	Actions    []string `json:"actions,omitempty"`
}

// SummaryAudio is the audio sub-object of the consolidated summary
type SummaryAudio struct {
	SpeechContent    string `json:"speech_content,omitempty"`
	BackgroundSounds string `json:"background_sounds,omitempty"`
	Music            string `json:"music,omitempty"`
}

// TechnicalAspects is the technical sub-object of the consolidated summary
type TechnicalAspects struct {
	VideoQuality string `json:"video_quality,omitempty"`
	Lighting     string `json:"lighting,omitempty"`
	CameraWork   string `json:"camera_work,omitempty"`
}

// Summary is the consolidated analysis produced by one inference call over
// the aggregated evidence. A failed call yields an error-shaped Summary;
// the report always carries one once aggregation is reached.
type Summary struct {
	Title               string           `json:"title,omitempty"`
	Duration            string           `json:"duration,omitempty"`
	ChronologicalEvents []SummaryEvent   `json:"chronological_events,omitempty"`
	MainElements        MainElements     `json:"main_elements,omitempty"`
	AudioAnalysis       SummaryAudio     `json:"audio_analysis,omitempty"`
	TechnicalAspects    TechnicalAspects `json:"technical_aspects,omitempty"`
	OverallMood         string           `json:"overall_mood,omitempty"`
	Purpose             string           `json:"purpose,omitempty"`
	DetailedSummary     string           `json:"detailed_summary,omitempty"`

	Error            string `json:"error,omitempty"`
	Message          string `json:"message,omitempty"`
	TechnicalDetails string `json:"technical_details,omitempty"`
}

// IsError reports whether summary generation failed
func (s Summary) IsError() bool {
	return s.Error != ""
}

// AnalysisReport is the top-level aggregate persisted to the archive.
// Field names match the archive's analysis.json layout.
type AnalysisReport struct {
	KeyFrames []FrameAnalysis   `json:"frames"`
	AllFrames []FrameIndexEntry `json:"all_frames_info"`
	Audio     *AudioAnalysis    `json:"audio_analysis"`
	Summary   *Summary          `json:"summary"`
}
