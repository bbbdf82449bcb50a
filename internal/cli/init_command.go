package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/codemerge/internal/config"
	"github.com/temirov/codemerge/internal/utils"
)

const (
	initUse              = "init"
	initShortDescription = "write the default configuration file"
	initLongDescription  = "Write the default configuration to ./" + utils.ConfigFileName +
		" or, with --global, to ~/" + utils.GlobalConfigDirectoryName + "/" + utils.GlobalConfigFileName + "."
	initGlobalFlagName       = "global"
	initForceFlagName        = "force"
	initGlobalFlagUsage      = "write the global configuration instead of the local one"
	initForceFlagUsage       = "overwrite an existing configuration file"
	initCompletedMessageText = "configuration written to %s\n"
)

func newInitCommand(dependencies Dependencies) *cobra.Command {
	var global bool
	var force bool
	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			path, err := config.InitializeConfiguration(config.InitOptions{Target: target, Force: force})
			if err != nil {
				return err
			}
			_, printErr := fmt.Fprintf(dependencies.Stdout, initCompletedMessageText, path)
			return printErr
		},
	}
	registerBooleanFlag(initCommand.Flags(), &global, initGlobalFlagName, false, initGlobalFlagUsage)
	registerBooleanFlag(initCommand.Flags(), &force, initForceFlagName, false, initForceFlagUsage)
	return initCommand
}
