// sobot - Stack Overflow search for Discord
// License: MIT
//
// Copyright (c) 2026 sobot contributors

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sipeed/sobot/cmd/sobot/internal"
	"github.com/sipeed/sobot/cmd/sobot/internal/gateway"
	"github.com/sipeed/sobot/cmd/sobot/internal/search"
	"github.com/sipeed/sobot/cmd/sobot/internal/status"
	"github.com/sipeed/sobot/cmd/sobot/internal/version"
)

func NewSobotCommand() *cobra.Command {
	short := fmt.Sprintf("%s sobot - Stack Overflow search for Discord v%s\n\n", internal.Logo, internal.GetVersion())

	cmd := &cobra.Command{
		Use:     "sobot",
		Short:   short,
		Example: "sobot search how to reverse a slice",
	}

	cmd.AddCommand(
		gateway.NewGatewayCommand(),
		search.NewSearchCommand(),
		status.NewStatusCommand(),
		version.NewVersionCommand(),
	)

	return cmd
}

func main() {
	cmd := NewSobotCommand()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
