/* Package core provides the logging, configuration, and error
 * conventions shared across the forwarder.
 */
package core

import (
	"fmt"
	"os"

	"github.com/apex/log"
	"github.com/apex/log/handlers/text"
)

var shouldPrintTraceLogs = false
var logLevel log.Level

// InitializeLogger initializes the logger from the loaded configuration.
func InitializeLogger() {
	log.SetHandler(text.New(os.Stdout))

	logLevelString := GetConfigStringDefault("core.log_level", "INFO")

	var err error
	logLevel, err = log.ParseLevel(logLevelString)
	if err == nil {
		log.SetLevel(logLevel)
	} else if logLevelString == "TRACE" {
		// apex/log has no TRACE level; emulate it as a gated DEBUG message.
		log.SetLevel(log.DebugLevel)
		shouldPrintTraceLogs = true
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

// LogFatal logs a message at the FATAL level and exits the process.
func LogFatal(module any, a ...any) {
	if logLevel <= log.FatalLevel {
		log.Fatal(fmt.Sprintf("[%v]: ", module) + fmt.Sprint(a...))
	}
}

// LogError logs a message at the ERROR level.
func LogError(module any, a ...any) {
	if logLevel <= log.ErrorLevel {
		log.Error(fmt.Sprintf("[%v]: ", module) + fmt.Sprint(a...))
	}
}

// LogWarn logs a message at the WARN level.
func LogWarn(module any, a ...any) {
	if logLevel <= log.WarnLevel {
		log.Warn(fmt.Sprintf("[%v]: ", module) + fmt.Sprint(a...))
	}
}

// LogInfo logs a message at the INFO level.
func LogInfo(module any, a ...any) {
	if logLevel <= log.InfoLevel {
		log.Info(fmt.Sprintf("[%v]: ", module) + fmt.Sprint(a...))
	}
}

// LogDebug logs a message at the DEBUG level.
func LogDebug(module any, a ...any) {
	if logLevel <= log.DebugLevel {
		log.Debug(fmt.Sprintf("[%v]: ", module) + fmt.Sprint(a...))
	}
}

// LogTrace logs additional DEBUG messages, gated on core.log_level=TRACE.
func LogTrace(module any, a ...any) {
	if shouldPrintTraceLogs {
		log.Debug(fmt.Sprintf("[%v]: ", module) + fmt.Sprint(a...))
	}
}
