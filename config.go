package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

type Configuration struct {
	MaxSpills         int    `json:"max_spills"`
	Skip              int    `json:"skip"`
	Verbosity         int    `json:"verbosity"`
	EventWidth        uint32 `json:"event_width"`
	MaxWords          uint32 `json:"max_words"`
	StopOnDecodeError bool   `json:"stop_on_decode_error"`
	FileIn            string `json:"file_in"`
	FileOut           string `json:"file_out"`
	CountsFile        string `json:"counts_file"`
	ArchiveFile       string `json:"archive_file"`
	ArchiveLevel      int    `json:"archive_level"`
	WriteData         bool   `json:"write_data"`
	WriteCounts       bool   `json:"write_counts"`
	RunNumber         int    `json:"run_number"`
	NoDB              bool   `json:"no_db"`
	Host              string `json:"host"`
	User              string `json:"user"`
	Passwd            string `json:"pass"`
	DBName            string `json:"dbname"`
}

func LoadConfiguration(filename string) (Configuration, error) {
	var config Configuration

	// Set default values
	config.MaxSpills = 1000000000
	config.Skip = 0
	config.Verbosity = 0
	config.EventWidth = 100
	config.MaxWords = 1 << 20
	config.StopOnDecodeError = false
	config.FileOut = "out.h5"
	config.CountsFile = "counts.dat"
	config.ArchiveLevel = 3
	config.WriteData = true
	config.WriteCounts = true
	config.RunNumber = 0
	config.NoDB = false
	config.Host = "daqdb.phys.utk.edu"
	config.User = "scanreader"
	config.Passwd = "readonly"
	config.DBName = "PIXIE16"

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}
	err = json.Unmarshal(data, &config)
	if err != nil {
		return config, err
	}
	return config, nil
}

func printConfiguration(config Configuration, logger *slog.Logger) {
	logger.Info(fmt.Sprintf("File in: %s", config.FileIn), "module", "config")
	logger.Info(fmt.Sprintf("File out: %s", config.FileOut), "module", "config")
	logger.Info(fmt.Sprintf("Counts file: %s", config.CountsFile), "module", "config")
	logger.Info(fmt.Sprintf("Archive file: %s", config.ArchiveFile), "module", "config")
	logger.Info(fmt.Sprintf("Event width: %d ticks", config.EventWidth), "module", "config")
	logger.Info(fmt.Sprintf("Max words per spill: %d", config.MaxWords), "module", "config")
	logger.Info(fmt.Sprintf("Stop on decode error: %t", config.StopOnDecodeError), "module", "config")
	logger.Info(fmt.Sprintf("Max spills: %d", config.MaxSpills), "module", "config")
	logger.Info(fmt.Sprintf("Skip: %d", config.Skip), "module", "config")
	logger.Info(fmt.Sprintf("Verbosity: %d", config.Verbosity), "module", "config")
	logger.Info(fmt.Sprintf("Write data: %t", config.WriteData), "module", "config")
	logger.Info(fmt.Sprintf("Write counts: %t", config.WriteCounts), "module", "config")
	logger.Info(fmt.Sprintf("Run number: %d", config.RunNumber), "module", "config")
	logger.Info(fmt.Sprintf("No DB: %t", config.NoDB), "module", "config")
	logger.Info(fmt.Sprintf("Host: %s", config.Host), "module", "config")
	logger.Info(fmt.Sprintf("DB name: %s", config.DBName), "module", "config")
}
