package export

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/strummet/pricewatch/internal/obs"
	"github.com/strummet/pricewatch/pkg/models"
)

// Sink materializes the export CSV locally and pushes a copy to the remote
// backup location. The two halves fail independently: a Dropbox outage
// never invalidates the local export, and vice versa.
type Sink struct {
	Dir     string
	Folder  string
	Dropbox *DropboxClient

	// Now is replaceable for tests.
	Now func() time.Time
}

// NewSink creates a sink writing into dir. dropbox may be nil when no
// credentials are configured.
func NewSink(dir, folder string, dropbox *DropboxClient) *Sink {
	return &Sink{Dir: dir, Folder: folder, Dropbox: dropbox, Now: time.Now}
}

// Push renders the catalog to CSV, stores it under a date-stamped name and
// uploads it to the backup folder.
func (s *Sink) Push(ctx context.Context, products []models.Product) error {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, products); err != nil {
		return err
	}

	name := Filename(s.Now())

	if s.Dir != "" {
		if err := os.MkdirAll(s.Dir, 0o755); err != nil {
			return err
		}
		local := filepath.Join(s.Dir, name)
		if err := os.WriteFile(local, buf.Bytes(), 0o644); err != nil {
			return err
		}
		obs.Logger.Info("export written", "file", local)
	}

	if s.Dropbox != nil {
		remote := s.Folder + "/" + name
		if err := s.Dropbox.Upload(ctx, remote, buf.Bytes()); err != nil {
			return err
		}
		obs.Logger.Info("export backed up", "path", remote)
	}

	return nil
}
