package viewmodel

// Screen represents which part of the application has focus.
type Screen int

const (
	// ScreenPicking indicates the operator is choosing a document.
	ScreenPicking Screen = iota
	// ScreenAnalyzing indicates an analysis request is outstanding.
	ScreenAnalyzing
	// ScreenReviewing indicates an analysis result is on screen.
	ScreenReviewing
	// ScreenHistory indicates the review journal is on screen.
	ScreenHistory
)

// Tone tells the rendering layer how to style a message.
type Tone int

const (
	// ToneInfo is neutral information.
	ToneInfo Tone = iota
	// ToneSuccess reports something that already happened.
	ToneSuccess
	// ToneWarning reports something the operator should look at.
	ToneWarning
	// ToneDanger reports a condition that forbids an action.
	ToneDanger
)

// AppView represents the entire application view model.
type AppView struct {
	Review        *ReviewView
	History       *HistoryView
	FileName      string
	Error         string
	StatusMessage string
	KeyBindings   []KeyBinding
	Screen        Screen
	Width         int
	Height        int
	ShowHelp      bool
}

// KeyBinding represents a keyboard shortcut.
type KeyBinding struct {
	Key         string
	Description string
	IsActive    bool
}

// HasError returns true if the application has a global error.
func (av AppView) HasError() bool {
	return av.Error != ""
}

// GetActiveKeyBindings returns only the currently active key bindings.
func (av AppView) GetActiveKeyBindings() []KeyBinding {
	var active []KeyBinding
	for _, kb := range av.KeyBindings {
		if kb.IsActive {
			active = append(active, kb)
		}
	}
	return active
}
