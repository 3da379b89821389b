package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	unpacker "github.com/utk-scan/unpacker_go/pkg"
)

var configuration Configuration
var logger *slog.Logger

func main() {
	configFilename := flag.String("config", "", "Configuration file path")
	flag.Parse()

	var err error
	configuration, err = LoadConfiguration(*configFilename)
	if err != nil {
		fmt.Println("Error reading configuration file: ", err)
		return
	}

	level := slog.LevelInfo
	if configuration.Verbosity > 0 {
		level = slog.LevelDebug
	}
	logger = slog.New(NewHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	printConfiguration(configuration, logger)
	unpacker.SetLogger(engineLogger{logger: logger})

	var channels ChannelMap
	if !configuration.NoDB {
		dbConn, err := ConnectToDatabase(configuration.User, configuration.Passwd,
			configuration.Host, configuration.DBName)
		if err != nil {
			logger.Error(fmt.Sprintf("Error connecting to database: %v", err), "module", "main")
			return
		}
		channels, err = getChannelMapFromDB(dbConn, configuration.RunNumber)
		dbConn.Close()
		if err != nil {
			logger.Error(fmt.Sprintf("Error reading channel map: %v", err), "module", "main")
			return
		}
		logger.Info(fmt.Sprintf("Channel map loaded: %d channels", len(channels)), "module", "main")
	}

	file, err := os.Open(configuration.FileIn)
	if err != nil {
		logger.Error(fmt.Sprintf("Error opening file: %v", err), "module", "main")
		return
	}
	defer file.Close()

	var processor unpacker.EventProcessor
	var writer *Writer
	if configuration.WriteData {
		writer = NewWriter(configuration)
		defer writer.Close()
		processor = writer
	}

	var archiver *Archiver
	if configuration.ArchiveFile != "" {
		archiver, err = NewArchiver(configuration.ArchiveFile, configuration.ArchiveLevel)
		if err != nil {
			logger.Error(fmt.Sprintf("Error opening archive: %v", err), "module", "main")
			return
		}
		defer archiver.Close()
	}

	engine := unpacker.NewUnpacker(processor)
	engine.SetEventWidth(configuration.EventWidth)
	engine.SetMaxWords(configuration.MaxWords)
	engine.SetDebugMode(configuration.Verbosity > 1)
	engine.StopOnDecodeError(configuration.StopOnDecodeError)
	engine.SetCountsSink(&CountsFileWriter{Path: configuration.CountsFile, Channels: channels})

	reader := NewFileReader(file)
	start := time.Now()

	spillsRead := 0
	spillsRejected := 0
	for {
		record, err := reader.getNextSpill()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Error(fmt.Sprintf("Error reading spill: %v", err), "module", "main")
			break
		}

		if archiver != nil {
			if err := archiver.Archive(record.SpillID, record.Words); err != nil {
				logger.Error(fmt.Sprintf("Error archiving spill %d: %v", record.SpillID, err),
					"module", "main")
			}
		}

		if !engine.ReadSpill(record.Words) {
			spillsRejected++
			continue
		}
		spillsRead++
	}

	// Residual hits cannot pair with anything once the file is done.
	engine.Flush()
	engine.Close(configuration.WriteCounts)

	duration := time.Since(start)
	logger.Info(fmt.Sprintf("Spills processed: %d, rejected: %d, modules seen: %d",
		spillsRead, spillsRejected, engine.GetMaxModule()), "module", "main")
	logger.Info(fmt.Sprintf("Hits admitted: %d, retired: %d",
		engine.Admitted(), engine.Retired()), "module", "main")
	logger.Info(fmt.Sprintf("Total time: %d ms", duration.Milliseconds()), "module", "main")
}
