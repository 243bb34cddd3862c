package model

// FailedVideo records a video that could not be processed and why.
type FailedVideo struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

// OutputFile describes one generated transcript file.
type OutputFile struct {
	FilePath   string     `json:"file_path"`
	Videos     []VideoRef `json:"videos"`
	TokenCount int        `json:"token_count"`
}

// ProcessingResult is the final outcome of a transcript export job.
// Immutable once attached to a completed task.
type ProcessingResult struct {
	Successful  []VideoRef    `json:"successful"`
	Failed      []FailedVideo `json:"failed"`
	Warnings    []string      `json:"warnings"`
	OutputFiles []OutputFile  `json:"output_files"`
	Cancelled   bool          `json:"cancelled"`
}
