package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fluidlab/gofluid/pkg/fluid"
)

// recordCmd represents the record command
var recordCmd = &cobra.Command{
	Use:   "record [file]",
	Short: "Record readings to a CSV file",
	Long: `Connects to the board and appends one CSV row per display tick,
holding a timestamp and the latest reading of every channel, until
interrupted with Ctrl-C. Without a file argument the rows go to a
timestamped file in the current directory.`,
	Args: cobra.MaximumNArgs(1),
	Run:  record,
}

func init() {
	RootCmd.AddCommand(recordCmd)
}

func record(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	link, err := newLink(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create board link")
	}

	engine, err := fluid.New(cfg, link)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create engine")
	}

	if err := engine.Connect(""); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to board")
	}
	defer engine.Close()

	path := csvPath(args)
	f, err := os.Create(path)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create output file")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	ids := engine.Channels()

	header := make([]string, 0, len(ids)+1)
	header = append(header, "time")
	for _, id := range ids {
		header = append(header, string(id))
	}
	if err := w.Write(header); err != nil {
		log.Fatal().Err(err).Msg("failed to write CSV header")
	}

	rows := 0
	engine.OnUpdate(func(v fluid.View) {
		rec := make([]string, 0, len(ids)+1)
		rec = append(rec, time.Now().Format("2006-01-02T15:04:05.000"))
		for _, id := range ids {
			vals := v[id]
			if len(vals) == 0 {
				rec = append(rec, "")
				continue
			}
			rec = append(rec, strconv.FormatFloat(vals[len(vals)-1], 'g', -1, 64))
		}
		if err := w.Write(rec); err != nil {
			log.Warn().Err(err).Msg("failed to write CSV row")
			return
		}
		rows++
	})

	if err := engine.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start acquisition")
	}

	log.Info().Str("file", path).Str("port", engine.Port()).Msg("recording, Ctrl-C to stop")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	// Stop waits for both periodic loops, so no row arrives after this.
	engine.Stop()

	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatal().Err(err).Msg("failed to flush CSV")
	}

	log.Info().Int("rows", rows).Str("file", path).Msg("recording finished")
}

// csvPath picks the output file, a timestamped name unless one was given.
func csvPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return fmt.Sprintf("gofluid_%s.csv", time.Now().Format("20060102_150405"))
}
