package main

import (
	"fmt"

	"github.com/temirov/fzwalk/internal/cli"
	"github.com/temirov/fzwalk/internal/utils"
)

// main is the entry point for the fzwalk command.
func main() {
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger(false)
	if loggerInitializationError != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError))
	}
	defer loggerInstance.Sync()
	if applicationExecutionError := cli.Execute(); applicationExecutionError != nil {
		loggerInstance.Fatal(utils.ApplicationExecutionFailedMessage + ": " + applicationExecutionError.Error())
	}
}
