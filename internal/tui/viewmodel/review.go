package viewmodel

import "time"

// Placeholder is displayed for values the server did not provide.
const Placeholder = "—"

// Row is one label/value line of a section.
type Row struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// Section groups the rows describing one entity.
type Section struct {
	Title string `json:"title" yaml:"title"`
	Rows  []Row  `json:"rows" yaml:"rows"`
}

// MessageView is one line of the validation panel.
type MessageView struct {
	Text string `json:"text" yaml:"text"`
	Tone Tone   `json:"tone" yaml:"tone"`
}

// PreviewView lists the entities a commit would create.
type PreviewView struct {
	Sections []Section `json:"sections" yaml:"sections"`
}

// CommitControlView describes the commit action.
type CommitControlView struct {
	Label      string `json:"label" yaml:"label"`
	Enabled    bool   `json:"enabled" yaml:"enabled"`
	Confirming bool   `json:"confirming" yaml:"confirming"`
	Done       bool   `json:"done" yaml:"done"`
}

// ReviewView is everything the operator sees about one analyzed document.
type ReviewView struct {
	Preview  *PreviewView      `json:"preview,omitempty" yaml:"preview,omitempty"`
	FileName string            `json:"file" yaml:"file"`
	State    string            `json:"state" yaml:"state"`
	Status   string            `json:"status,omitempty" yaml:"status,omitempty"`
	Error    string            `json:"error,omitempty" yaml:"error,omitempty"`
	Sections []Section         `json:"result" yaml:"result"`
	Messages []MessageView     `json:"validation,omitempty" yaml:"validation,omitempty"`
	Commit   CommitControlView `json:"commit" yaml:"commit"`
}

// ShowValidation reports whether the validation panel is displayed.
func (v ReviewView) ShowValidation() bool {
	return len(v.Messages) > 0
}

// ShowPreview reports whether the new-entity preview is displayed.
func (v ReviewView) ShowPreview() bool {
	return v.Preview != nil && len(v.Preview.Sections) > 0
}

// IsBlocked reports whether any message forbids committing.
func (v ReviewView) IsBlocked() bool {
	for _, m := range v.Messages {
		if m.Tone == ToneDanger {
			return true
		}
	}
	return false
}

// Section returns the section with the given title, if any.
func (v ReviewView) Section(title string) (Section, bool) {
	for _, s := range v.Sections {
		if s.Title == title {
			return s, true
		}
	}
	return Section{}, false
}

// Value returns the value of the row with the given label, if any.
func (s Section) Value(label string) (string, bool) {
	for _, r := range s.Rows {
		if r.Label == label {
			return r.Value, true
		}
	}
	return "", false
}

// HistoryView lists recent journal entries.
type HistoryView struct {
	Entries []HistoryEntryView `json:"entries" yaml:"entries"`
}

// HistoryEntryView is one journal entry as displayed.
type HistoryEntryView struct {
	RecordedAt time.Time `json:"recorded_at" yaml:"recorded_at"`
	Kind       string    `json:"kind" yaml:"kind"`
	Outcome    string    `json:"outcome" yaml:"outcome"`
	FileName   string    `json:"file" yaml:"file"`
	Invoice    string    `json:"invoice" yaml:"invoice"`
	Issuer     string    `json:"issuer" yaml:"issuer"`
	Message    string    `json:"message,omitempty" yaml:"message,omitempty"`
	Tone       Tone      `json:"tone" yaml:"tone"`
}
