package transfer

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/colonyops/weekplan/internal/core/planner"
)

// Import parses r with the codec chosen by the extension of path.
func Import(path string, r io.Reader) (planner.LoadData, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		return ImportJSON(r)
	case ".csv":
		return ImportCSV(r)
	default:
		return planner.LoadData{}, &ImportFormatError{
			Format: strings.TrimPrefix(ext, "."),
			Reason: "unsupported file type, want .json or .csv",
		}
	}
}
