package unpacker

type Logger interface {
	Info(message string, module string)
	Debug(message string, module string)
	Error(string)
}

var logger Logger

func SetLogger(l Logger) {
	logger = l
}

func logInfo(message string) {
	if logger != nil {
		logger.Info(message, "unpacker")
	}
}

func logDebug(message string) {
	if logger != nil {
		logger.Debug(message, "unpacker")
	}
}

func logError(message string) {
	if logger != nil {
		logger.Error(message)
	}
}
