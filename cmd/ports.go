package cmd

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fluidlab/gofluid/pkg/board"
)

// portsCmd represents the ports command
var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List serial ports",
	Long: `Lists the serial ports visible on this machine. Ports whose
description contains the configured match string are marked with an
asterisk; the first of those is the one "monitor" and "record" will
pick when no port is given.`,
	Run: ports,
}

func init() {
	RootCmd.AddCommand(portsCmd)
}

func ports(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	infos, err := board.ListPorts()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to list serial ports")
	}

	if len(infos) == 0 {
		fmt.Println("no serial ports found")
		return
	}

	for _, p := range infos {
		marker := " "
		if strings.Contains(p.Description, cfg.Serial.Match) {
			marker = "*"
		}
		fmt.Printf("%s %-24s %s\n", marker, p.Name, p.Description)
	}
}
