package model

// FileEvent represents a file system event
type FileEvent struct {
	Path      string
	Operation string
}

// InteractionState represents the current UI interaction state of the live view
type InteractionState struct {
	IsPaused      bool
	ShowHelp      bool
	ForceRefresh  bool
	ShowErrorBars bool
	UseLogScale   bool
	LayoutStyle   int
	StatusMessage string
}
