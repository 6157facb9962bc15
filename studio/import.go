// SPDX-License-Identifier: EPL-2.0

package studio

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ik5/audrev"
	"github.com/ik5/audrev/audio"
	"github.com/ik5/audrev/formats/aiff"
	"github.com/ik5/audrev/formats/mp3"
	"github.com/ik5/audrev/formats/vorbis"
	"github.com/ik5/audrev/formats/wav"
)

// DefaultDecoders knows every format the formats packages can read.
func DefaultDecoders() *audio.Registry {
	r := audio.NewRegistry()
	r.Register("wav", wav.Decoder{})
	r.Register("mp3", mp3.Decoder{})
	r.Register("ogg", vorbis.Decoder{})
	r.Register("oga", vorbis.Decoder{})
	r.Register("aiff", aiff.Decoder{})
	r.Register("aif", aiff.Decoder{})
	return r
}

// Import decodes path, converts it to the take format and replaces the
// current take with it. The previous take survives a failed import.
func (s *Studio) Import(ctx context.Context, path string) error {
	if s.Recording() {
		return s.fail("cannot import while recording", ErrRecordingActive)
	}

	dec, err := s.decoders.ForPath(path)
	if err != nil {
		return s.fail("cannot import "+path, fmt.Errorf("%w: %w", ErrMalformedInput, err))
	}

	in, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s.fail("nothing to import", fmt.Errorf("%w: %s", ErrFileNotFound, path))
	}
	if err != nil {
		return s.fail("cannot open "+path, fmt.Errorf("%w: %w", ErrIO, err))
	}
	defer in.Close()

	src, err := dec.Decode(in)
	if err != nil {
		return s.fail("cannot decode "+path, fmt.Errorf("%w: %w", ErrMalformedInput, err))
	}
	defer src.Close()

	s.logger.Debug("importing",
		slog.String("path", path),
		slog.Int("sample_rate", src.SampleRate()),
		slog.Int("channels", src.Channels()),
	)

	if err := ctx.Err(); err != nil {
		return s.fail("import canceled", err)
	}
	samples, err := audrev.ToFormat(src, s.cfg.Format, 0)
	if err != nil {
		return s.fail("cannot convert "+path, fmt.Errorf("%w: %w", ErrMalformedInput, err))
	}

	if err := s.replaceTake(samples); err != nil {
		return s.fail("cannot write take", fmt.Errorf("%w: %w", ErrIO, err))
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	s.metrics.RecordImport(format)
	n := int64(len(samples)) * 2
	s.notify(Imported, fmt.Sprintf("imported %s as %d bytes (%s)", filepath.Base(path), n, s.cfg.Format.Duration(n)), nil)
	return nil
}

// replaceTake writes samples next to the take and renames it into place.
func (s *Studio) replaceTake(samples []int16) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(s.cfg.WAVPath), ".import-*.wav")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err := wav.WriteWAV16(tmp, s.cfg.Format, samples); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.cfg.WAVPath)
}
