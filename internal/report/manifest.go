package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/waferlab/mdmreport/internal/utils"
)

// Manifest records what one report run produced. It is regenerated in full
// on every run; nothing reads it back across runs.
type Manifest struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Source      string    `json:"source"`
	Lot         string    `json:"lot"`
	MDMFiles    int       `json:"mdm_files"`
	Pages       []string  `json:"pages"`
}

// NewManifest starts a manifest for a report run over the given source CSV.
func NewManifest(source, lot string) *Manifest {
	return &Manifest{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Source:      source,
		Lot:         lot,
	}
}

// Write persists the manifest as indented JSON, atomically.
func (m *Manifest) Write(path string) error {
	b, err := utils.PrettyJSON(m)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(path, b)
}
