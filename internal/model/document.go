package model

// Document is a file the operator selected for analysis.
type Document struct {
	Path        string
	Name        string
	ContentType string
	Size        int64
}
