package restyutil

import (
	"log/slog"
	"os"
	"path/filepath"

	devenv "outage-scraper/dev/env"
)

// Output receives saved response bodies.
type Output interface {
	Write(name string, contents []byte)
}

type FilesystemOutput struct {
	directory string
}

// NewFilesystemOutput writes into `dir`, which may start with <dev_state>.
// Existing files in it are kept.
func NewFilesystemOutput(dir string) (FilesystemOutput, error) {
	dir, err := devenv.ResolvePath(dir)
	if err != nil {
		return FilesystemOutput{}, err
	}
	err = os.MkdirAll(dir, 0777)
	if err != nil {
		return FilesystemOutput{}, err
	}
	return FilesystemOutput{directory: dir}, nil
}

func (o FilesystemOutput) Dir() string {
	return o.directory
}

func (o FilesystemOutput) Write(name string, contents []byte) {
	err := os.WriteFile(filepath.Join(o.directory, name), contents, 0600)
	if err != nil {
		slog.Warn("failed to save response body", "name", name, "err", err)
	}
}
