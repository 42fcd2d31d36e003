package metrics

import (
	"fmt"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rohmanhakim/docuprism/pkg/fileutil"
)

// WriteToTextfile writes the current values in the text exposition format,
// suitable for the node_exporter textfile collector. The write is atomic.
func (m *Metrics) WriteToTextfile(path string) error {
	if err := fileutil.EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("metrics: write %s: %w", path, err)
	}
	return nil
}
