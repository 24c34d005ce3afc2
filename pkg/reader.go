package reco

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReadRecords parses a TDC log of "channel,timestamp" lines. Any malformed
// line aborts the read and nothing is returned.
func ReadRecords(r io.Reader) ([]RawRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true
	reader.Comment = '#'
	reader.ReuseRecord = true

	records := make([]RawRecord, 0, 1024)
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, &InputFormatError{Line: parseErr.Line, Text: strings.Join(fields, ","), Err: parseErr.Err}
			}
			return nil, err
		}
		line, _ := reader.FieldPos(0)

		record, err := parseRecord(fields)
		if err != nil {
			return nil, &InputFormatError{Line: line, Text: strings.Join(fields, ","), Err: err}
		}
		records = append(records, record)
	}
	return records, nil
}

func parseRecord(fields []string) (RawRecord, error) {
	channel, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return RawRecord{}, fmt.Errorf("channel: %w", err)
	}
	if channel < 0 {
		return RawRecord{}, errNegativeChannel
	}
	timestamp, err := strconv.ParseInt(strings.TrimSpace(fields[1]), 10, 64)
	if err != nil {
		return RawRecord{}, fmt.Errorf("timestamp: %w", err)
	}
	if timestamp < 0 {
		return RawRecord{}, fmt.Errorf("negative timestamp %d", timestamp)
	}
	return RawRecord{Channel: channel, Timestamp: timestamp}, nil
}

func ReadRecordsFile(filename string) ([]RawRecord, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, &ErrOpenFile{Filename: filename, Err: err}
	}
	defer file.Close()
	return ReadRecords(file)
}
