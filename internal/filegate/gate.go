// Package filegate decides whether a selected file may be sent for analysis.
package filegate

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/nota/internal/common"
	"github.com/Veraticus/nota/internal/model"
)

// RequiredType is the only document type accepted for analysis.
const RequiredType = "application/pdf"

// RejectionMessage is shown to the operator when a file is refused.
const RejectionMessage = "Please select a valid PDF file."

var (
	// ErrUnsupportedType means the declared type is not RequiredType.
	ErrUnsupportedType = errors.New("unsupported document type")
	// ErrNotAFile means the path does not name a readable regular file.
	ErrNotAFile = errors.New("not a regular file")
)

// Gate holds the current candidate document. A rejected offer leaves the
// previous candidate in place.
type Gate struct {
	current *model.Document
}

// New returns a gate with no candidate.
func New() *Gate {
	return &Gate{}
}

// Offer validates path and, on success, makes it the current candidate.
// declaredType overrides the type derived from the file extension when set.
func (g *Gate) Offer(path, declaredType string) (model.Document, error) {
	doc, err := Check(path, declaredType)
	if err != nil {
		return model.Document{}, err
	}

	g.current = &doc
	return doc, nil
}

// Current returns the accepted candidate, if any.
func (g *Gate) Current() (model.Document, bool) {
	if g.current == nil {
		return model.Document{}, false
	}
	return *g.current, true
}

// Ready reports whether a candidate is available for analysis.
func (g *Gate) Ready() bool {
	return g.current != nil
}

// Check validates a file without touching any gate state.
func Check(path, declaredType string) (model.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return model.Document{}, common.NewUserError(RejectionMessage, fmt.Errorf("%w: %w", ErrNotAFile, err))
	}
	if !info.Mode().IsRegular() {
		return model.Document{}, common.NewUserError(RejectionMessage, fmt.Errorf("%w: %s", ErrNotAFile, path))
	}

	contentType := DeclaredType(path, declaredType)
	if contentType != RequiredType {
		return model.Document{}, common.NewUserError(RejectionMessage,
			fmt.Errorf("%w: %q", ErrUnsupportedType, contentType))
	}

	return model.Document{
		Path:        path,
		Name:        filepath.Base(path),
		ContentType: contentType,
		Size:        info.Size(),
	}, nil
}

// DeclaredType returns the media type of path without parameters. An explicit
// declaration wins over the extension.
func DeclaredType(path, declared string) string {
	if declared == "" {
		declared = mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	}
	if declared == "" {
		return ""
	}

	mediaType, _, err := mime.ParseMediaType(declared)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(declared))
	}
	return mediaType
}
