package main

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"
)

// Spill files are a sequence of little-endian records:
//
//	word 0: total words in the record, header included
//	word 1: spill id
//	word 2: xxhash64 of the payload bytes, low half
//	word 3: xxhash64 of the payload bytes, high half
//	word 4...: payload (raw digitizer words)
const spillHeaderWords = 4

type SpillHeaderStruct struct {
	TotalWords uint32
	SpillID    uint32
	SumLow     uint32
	SumHigh    uint32
}

type SpillRecord struct {
	SpillID uint32
	Words   []uint32
}

type FileReader struct {
	File       io.Reader
	SpillCount int
}

func NewFileReader(file io.Reader) *FileReader {
	return &FileReader{File: file, SpillCount: -1}
}

// getNextSpill returns the next checksum-valid spill record. Records with
// a bad checksum are dropped here so corrupt data never reaches the
// engine. io.EOF signals end of file.
func (f *FileReader) getNextSpill() (SpillRecord, error) {
	var record SpillRecord
	header, payload, err := readSpillRecord(f.File)
	if err != nil {
		return record, err
	}

	sum := uint64(header.SumLow) + uint64(header.SumHigh)<<32
	if xxhash.Sum64(payload) != sum {
		logger.Error(fmt.Sprintf("checksum mismatch on spill %d, dropping it", header.SpillID),
			"module", "reader")
		return f.getNextSpill()
	}

	f.SpillCount++
	if f.SpillCount >= configuration.MaxSpills {
		logger.Info("Max spills reached", "module", "reader")
		return record, io.EOF
	}
	if f.SpillCount < configuration.Skip {
		return f.getNextSpill()
	}

	record.SpillID = header.SpillID
	record.Words = make([]uint32, len(payload)/4)
	reader := bytes.NewReader(payload)
	if err := binary.Read(reader, binary.LittleEndian, &record.Words); err != nil {
		return record, err
	}
	return record, nil
}

func readSpillRecord(r io.Reader) (SpillHeaderStruct, []byte, error) {
	var header SpillHeaderStruct
	headerBinary := make([]byte, spillHeaderWords*4)
	if _, err := io.ReadFull(r, headerBinary); err != nil {
		return header, nil, err
	}
	headerReader := bytes.NewReader(headerBinary)
	binary.Read(headerReader, binary.LittleEndian, &header)

	if header.TotalWords < spillHeaderWords {
		return header, nil, fmt.Errorf("bad spill record: %d total words", header.TotalWords)
	}
	payload := make([]byte, (header.TotalWords-spillHeaderWords)*4)
	if _, err := io.ReadFull(r, payload); err != nil {
		return header, nil, err
	}
	return header, payload, nil
}

// writeSpillRecord frames raw spill words into one checksummed record.
// Used by the archiver and by file-producing tools upstream.
func writeSpillRecord(w io.Writer, spillID uint32, words []uint32) error {
	payload := new(bytes.Buffer)
	if err := binary.Write(payload, binary.LittleEndian, words); err != nil {
		return err
	}
	sum := xxhash.Sum64(payload.Bytes())

	header := SpillHeaderStruct{
		TotalWords: uint32(len(words) + spillHeaderWords),
		SpillID:    spillID,
		SumLow:     uint32(sum & 0xFFFFFFFF),
		SumHigh:    uint32(sum >> 32),
	}
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return err
	}
	_, err := w.Write(payload.Bytes())
	return err
}
