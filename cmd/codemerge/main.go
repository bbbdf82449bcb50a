package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/temirov/codemerge/internal/cli"
	"github.com/temirov/codemerge/internal/utils"
)

// main is the entry point for the codemerge command.
func main() {
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger(false)
	if loggerInitializationError != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError))
	}
	if applicationExecutionError := cli.Execute(); applicationExecutionError != nil {
		loggerInstance.Error(utils.ApplicationExecutionFailedMessage, zap.Error(applicationExecutionError))
		_ = loggerInstance.Sync()
		os.Exit(1)
	}
	_ = loggerInstance.Sync()
}
