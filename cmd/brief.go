package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mimiwrp/crispnews/internal/narrate"
)

var flagListen bool

var briefCmd = &cobra.Command{
	Use:   "brief",
	Short: "Generate a briefing and print it without the TUI",
	Long: `Fetch headlines for the selected category, synthesize the briefing
narrative, and print it to stdout. With --listen the briefing is also
read aloud before the command exits.`,
	RunE: runBrief,
}

func init() {
	briefCmd.Flags().StringVar(&flagCategory, "category", "", "briefing category (highlights, technology, business, science, sports)")
	briefCmd.Flags().IntVar(&flagDuration, "duration", 0, "briefing length in minutes (1, 3, or 5)")
	briefCmd.Flags().BoolVar(&flagListen, "listen", false, "narrate the briefing aloud")
}

func runBrief(cmd *cobra.Command, args []string) error {
	deps, err := buildApp()
	if err != nil {
		return err
	}
	defer deps.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := deps.orch.Generate(ctx); err != nil {
		return fmt.Errorf("generating briefing: %w", err)
	}

	b := deps.orch.Current()
	fmt.Printf("%s — %d minute briefing (%d stories)\n\n", b.Category.DisplayName(), b.Minutes, len(b.Articles))
	fmt.Println(b.Narrative)
	fmt.Println()
	for i, art := range b.Articles {
		fmt.Printf("%2d. %s", i+1, art.Title)
		if art.Source != "" {
			fmt.Printf(" (%s)", art.Source)
		}
		fmt.Println()
	}

	daily, minute := deps.client.Usage()
	deps.log.Debug().Int("daily", daily).Int("minute", minute).Msg("request usage after briefing")

	if !flagListen {
		return nil
	}
	return listen(deps.orch.Narrator(), b.Narrative, narrate.Options{
		PreferredVoices: deps.cfg.Speech.PreferredVoices,
		Rate:            deps.cfg.Speech.Rate,
		Pitch:           deps.cfg.Speech.Pitch,
		Volume:          deps.cfg.Speech.Volume,
	})
}

// listen narrates text and blocks until playback finishes or fails.
func listen(n *narrate.Narrator, text string, opts narrate.Options) error {
	done := make(chan error, 1)
	n.SetListeners(narrate.Listeners{
		OnEnd:   func() { done <- nil },
		OnError: func(err error) { done <- err },
	})

	if err := n.Speak(text, opts); err != nil {
		return fmt.Errorf("starting narration: %w", err)
	}
	if err := <-done; err != nil {
		return fmt.Errorf("narration: %w", err)
	}
	return nil
}
