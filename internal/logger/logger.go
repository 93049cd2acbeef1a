// Package logger builds the zerolog logger the rest of the application
// shares. The TUI owns stdout, so the default sink is a file under the
// config directory.
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

const permission = 0o664

type Build struct {
	writer io.Writer
	path   string
}

func New() *Build {
	return &Build{}
}

func (b *Build) FromPath(path string) *Build {
	b.path = path
	return b
}

func (b *Build) FromWriter(w io.Writer) *Build {
	b.writer = w
	return b
}

func (b *Build) Make() (zerolog.Logger, error) {
	w := b.writer
	if b.path != "" {
		f, err := os.OpenFile(b.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return zerolog.Nop(), err
		}
		w = zerolog.SyncWriter(f)
	}
	if w == nil {
		return zerolog.Nop(), nil
	}
	return zerolog.New(w).With().Timestamp().Logger(), nil
}
