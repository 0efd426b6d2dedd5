package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version 빌드 시 -ldflags "-X .../commands.Version=..." 로 주입
var Version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "버전 출력",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "salesforecast %s\n", Version)
			return err
		},
	}
}
