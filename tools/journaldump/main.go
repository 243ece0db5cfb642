package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"crawler-server/internal/engine"
	"crawler-server/internal/infrastructure/storage"
	"crawler-server/pkg/logger"
)

func main() {
	var (
		replay     bool
		starterKit bool
		limit      int
	)
	flag.BoolVar(&replay, "replay", false, "Replay the journal into a fresh world and print the final players")
	flag.BoolVar(&starterKit, "starter-kit", false, "Grant the starter kit on replayed joins (must match the recording server)")
	flag.IntVar(&limit, "limit", 0, "Print at most N records (0 - all)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: journaldump [flags] <journal.cdjl>\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	logger.Init("warn", "text")

	session, err := storage.LoadJournal(flag.Arg(0))
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load journal")
	}

	fmt.Printf("seed:     %d\n", session.Seed)
	fmt.Printf("started:  %s\n", time.Unix(session.Timestamp, 0).UTC().Format(time.RFC3339))
	fmt.Printf("records:  %d\n\n", len(session.Records))

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTIME\tACTION\tPLAYER\tPAYLOAD")
	for i, rec := range session.Records {
		if limit > 0 && i >= limit {
			break
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			i,
			time.UnixMilli(rec.UnixMilli).UTC().Format("15:04:05.000"),
			rec.Action,
			rec.PlayerID,
			rec.Payload,
		)
	}
	_ = tw.Flush()

	if !replay {
		return
	}

	cfg := engine.NewConfig()
	cfg.StarterKit = starterKit
	res, err := engine.Replay(session, cfg)
	if err != nil {
		logger.Log.WithError(err).Fatal("Replay failed")
	}

	fmt.Printf("\nreplay: %d applied, %d rejected\n\n", res.Applied, res.Rejected)
	tw = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tID\tX\tY\tHP\tMANA")
	for _, p := range res.World.GetPlayers() {
		fmt.Fprintf(tw, "%s\t%s\t%.1f\t%.1f\t%d\t%d\n", p.Name, p.ID, p.Position.X, p.Position.Y, p.Health, p.Mana)
	}
	_ = tw.Flush()
}
