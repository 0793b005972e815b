package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/2beens/vibefit/internal/gymlog"
	"github.com/2beens/vibefit/internal/session"
	"github.com/2beens/vibefit/internal/workout"
	"github.com/2beens/vibefit/pkg"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var followInterval = time.Second

type statusFlags struct {
	follow  bool
	entries bool
	history bool
}

func newStatusCmd(a *app) *cobra.Command {
	flags := &statusFlags{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the workout clock, rest timer and session summary",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.open(func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		var snapshot gymlog.Snapshot
		var state *session.State
		err := a.withState(cmd.Context(), func(s *session.State) error {
			state = s
			snapshot = a.env.Service.Snapshot(s)
			return nil
		})
		if err != nil {
			return err
		}

		printStatus(out, snapshot)
		if flags.entries {
			printEntries(out, snapshot.Entries)
		}
		if flags.history {
			printHistory(out, snapshot.Messages)
		}

		if flags.follow && !snapshot.Timer.Ready {
			if isTerminal(out) {
				return runRestCountdown(cmd.Context(), out, a.env.Service, state)
			}
			return followRest(cmd.Context(), out, a.env.Service, state)
		}
		return nil
	})

	cmd.Flags().BoolVarP(&flags.follow, "follow", "f", false, "keep counting down until the rest is over")
	cmd.Flags().BoolVar(&flags.entries, "entries", false, "list the sets logged in this session")
	cmd.Flags().BoolVar(&flags.history, "history", false, "show the conversation with the coach")

	return cmd
}

func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// followRest prints the rest countdown once per interval until READY.
func followRest(ctx context.Context, out io.Writer, service *gymlog.Service, state *session.State) error {
	ticker := time.NewTicker(followInterval)
	defer ticker.Stop()

	for {
		timer := service.Timer(state)
		fmt.Fprintf(out, "⏱  %s  rest %s\n", timer.ElapsedClock, timer.RestClock)
		if timer.Ready {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func printStatus(out io.Writer, snapshot gymlog.Snapshot) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "session\t%s\n", snapshot.SessionID)
	fmt.Fprintf(w, "elapsed\t%s\n", snapshot.Timer.ElapsedClock)
	fmt.Fprintf(w, "rest\t%s\n", snapshot.Timer.RestClock)
	fmt.Fprintf(w, "sets\t%d\n", len(snapshot.Entries))
	if n := len(snapshot.Entries); n > 0 {
		last := snapshot.Entries[n-1]
		fmt.Fprintf(w, "last set\t%s %skg x %d, RPE %d\n", last.Exercise, pkg.FormatKilos(last.Weight), last.Reps, last.RPE)
	}
	if snapshot.LogbookAvailable {
		fmt.Fprintf(w, "logbook\tremote\n")
	} else {
		fmt.Fprintf(w, "logbook\tlocal only (%s)\n", snapshot.LogbookWarning)
	}
	if snapshot.Pending {
		fmt.Fprintf(w, "coach\tlast message unanswered, run `vibefit retry`\n")
	}
	_ = w.Flush()
}

func printEntries(out io.Writer, entries []workout.LogEntry) {
	fmt.Fprintln(out)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tEXERCISE\tKG\tREPS\tRPE\tFAILURE")
	for _, e := range entries {
		failure := "No"
		if e.Failure {
			failure = "Yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
			e.Timestamp.Format("15:04:05"), e.Exercise, pkg.FormatKilos(e.Weight), e.Reps, e.RPE, failure)
	}
	_ = w.Flush()
}

func printHistory(out io.Writer, messages []workout.ChatMessage) {
	for _, m := range messages {
		prefix := "🧑"
		if m.Role == workout.RoleAssistant {
			prefix = "🤖"
		}
		fmt.Fprintf(out, "\n%s %s\n", prefix, m.Content)
	}
}
