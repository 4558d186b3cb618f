package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taoyao-code/msp-server/internal/serialport"
)

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "列出可用串口",
	RunE: func(cmd *cobra.Command, args []string) error {
		ports, err := serialport.List()
		if err != nil {
			return err
		}
		if len(ports) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no serial ports found")
			return nil
		}
		for _, p := range ports {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(portsCmd)
}
