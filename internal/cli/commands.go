package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/2beens/vibefit/internal/coach"
	"github.com/2beens/vibefit/internal/gymlog"
	"github.com/2beens/vibefit/internal/session"
	"github.com/2beens/vibefit/internal/workout"
	"github.com/2beens/vibefit/pkg"

	"github.com/spf13/cobra"
)

type logFlags struct {
	weight      float64
	reps        int
	rpe         int
	failure     bool
	restSeconds int
	mode        string
	forward     bool
}

func newLogCmd(a *app) *cobra.Command {
	flags := &logFlags{}

	cmd := &cobra.Command{
		Use:   "log <exercise>",
		Short: "Log one working set and start the rest timer",
		Long: `Log one working set. In coach mode (default) the set is also sent
to the AI coach; in quick mode only with --forward.`,
		Example: `  vibefit log 深蹲 --weight 60 --reps 5 --rpe 8
  vibefit log 臥推 -w 42.5 -r 8 --mode quick --rest 90`,
		Args: cobra.MinimumNArgs(1),
	}
	cmd.RunE = a.open(func(cmd *cobra.Command, args []string) error {
		mode := workout.Mode(flags.mode)
		if !mode.IsValid() {
			return fmt.Errorf("unknown mode [%s], use coach or quick", flags.mode)
		}
		rest, err := workout.RestFromSeconds(flags.restSeconds)
		if err != nil {
			return err
		}

		req := gymlog.LogSetRequest{
			Mode: mode,
			Input: workout.SetInput{
				Exercise: strings.Join(args, " "),
				Weight:   flags.weight,
				Reps:     flags.reps,
				RPE:      flags.rpe,
				Failure:  flags.failure,
			},
			Rest:    rest,
			Forward: mode == workout.ModeCoach || flags.forward,
		}

		out := cmd.OutOrStdout()
		return a.withState(cmd.Context(), func(state *session.State) error {
			result, err := a.env.Service.LogSet(cmd.Context(), state, req)
			if err != nil {
				return err
			}
			printLogSetResult(out, result, a.env.Service.LogbookAvailable(), a.env.Service.LogbookWarning())
			return nil
		})
	})

	cmd.Flags().Float64VarP(&flags.weight, "weight", "w", 0, "weight in kg")
	cmd.Flags().IntVarP(&flags.reps, "reps", "r", 0, "reps (or seconds for timed sets)")
	cmd.Flags().IntVar(&flags.rpe, "rpe", 8, "rate of perceived exertion, 1-10")
	cmd.Flags().BoolVar(&flags.failure, "failure", false, "the set went to failure")
	cmd.Flags().IntVar(&flags.restSeconds, "rest", 0, "rest in seconds (default rest when 0)")
	cmd.Flags().StringVar(&flags.mode, "mode", string(workout.ModeCoach), "coach | quick")
	cmd.Flags().BoolVar(&flags.forward, "forward", false, "send a quick mode set to the coach")

	return cmd
}

func newChatCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "chat <message>",
		Short:   "Ask the AI coach a question",
		Example: `  vibefit chat 膝蓋有點不舒服怎麼辦?`,
		Args:    cobra.MinimumNArgs(1),
	}
	cmd.RunE = a.open(func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		return a.withState(cmd.Context(), func(state *session.State) error {
			reply, err := a.env.Service.SendMessage(cmd.Context(), state, strings.Join(args, " "))
			if err != nil {
				return dialogueErr(err)
			}
			printReply(out, reply)
			return nil
		})
	})
	return cmd
}

func newRetryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "retry",
		Short: "Ask the coach again about the last unanswered message",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.open(func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		return a.withState(cmd.Context(), func(state *session.State) error {
			reply, err := a.env.Service.RetryPending(cmd.Context(), state)
			if errors.Is(err, gymlog.ErrNothingPending) {
				fmt.Fprintln(out, "nothing to retry, every message has a reply")
				return nil
			}
			if err != nil {
				return dialogueErr(err)
			}
			printReply(out, reply)
			return nil
		})
	})
	return cmd
}

func dialogueErr(err error) error {
	if coach.IsDialogueError(err) {
		return fmt.Errorf("AI 連線錯誤: %w (run `vibefit retry` to ask again)", err)
	}
	return err
}

func printLogSetResult(out io.Writer, result *gymlog.LogSetResult, logbookAvailable bool, logbookWarning string) {
	entry := result.Entry
	failure := ""
	if entry.Failure {
		failure = " 💀"
	}
	fmt.Fprintf(out, "✅ %s %skg x %d, RPE %d%s\n", entry.Exercise, pkg.FormatKilos(entry.Weight), entry.Reps, entry.RPE, failure)

	switch {
	case result.PersistenceErr != nil:
		fmt.Fprintf(out, "⚠️  寫入失敗: %s\n", result.PersistenceErr)
	case logbookAvailable:
		fmt.Fprintf(out, "已儲存至資料庫: %s\n", entry.Exercise)
	default:
		fmt.Fprintf(out, "⚠️  local only: %s\n", logbookWarning)
	}

	fmt.Fprintf(out, "rest until %s\n", result.RestEnd.Format("15:04:05"))

	if result.DialogueErr != nil {
		fmt.Fprintf(out, "❌ AI 連線錯誤: %s (run `vibefit retry` to ask again)\n", result.DialogueErr)
	} else if result.Forwarded {
		printReply(out, result.Reply)
	}
}

func printReply(out io.Writer, reply string) {
	fmt.Fprintf(out, "\n🤖 %s\n", reply)
}
