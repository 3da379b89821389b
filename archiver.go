package main

import (
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"
)

// Archiver keeps a zstd-compressed copy of every spill exactly as it came
// off the reader, framed with the same checksummed records as the input
// file, so a run can be replayed offline.
type Archiver struct {
	file    *os.File
	encoder *zstd.Encoder
	spills  int
}

func NewArchiver(path string, level int) (*Archiver, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	encoder, err := zstd.NewWriter(file,
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
	if err != nil {
		file.Close()
		return nil, err
	}
	return &Archiver{file: file, encoder: encoder}, nil
}

func (a *Archiver) Archive(spillID uint32, words []uint32) error {
	if err := writeSpillRecord(a.encoder, spillID, words); err != nil {
		return err
	}
	a.spills++
	return nil
}

func (a *Archiver) Close() error {
	logger.Info(fmt.Sprintf("archived %d spills", a.spills), "module", "archiver")
	if err := a.encoder.Close(); err != nil {
		a.file.Close()
		return err
	}
	return a.file.Close()
}
