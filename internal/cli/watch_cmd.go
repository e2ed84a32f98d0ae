package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/hbjs97/cprof/internal/profile"
	"github.com/hbjs97/cprof/internal/watch"
	"github.com/spf13/cobra"
)

func (a *App) newWatchCmd() *cobra.Command {
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "라이브 경로 링크 변화를 감시한다 (Ctrl-C로 종료)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.build()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			watcher := watch.New(c.store, c.store.Layout(), func(r profile.Report) {
				fmt.Fprintf(w, "%s %s\n", dimStyle.Render(time.Now().Format(time.TimeOnly)), formatReport(r))
			})
			watcher.SetDebounce(debounce)
			return watcher.Run(cmd.Context())
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "연속 이벤트를 묶는 시간")
	return cmd
}

func formatReport(r profile.Report) string {
	parts := make([]string, 0, len(r.Trees)+1)
	for _, t := range r.Trees {
		name := t.Profile
		if name == "" {
			name = string(t.State)
		}
		parts = append(parts, t.Tree+"="+name)
	}
	if r.Consistent {
		parts = append(parts, okStyle.Render("ok"))
	} else {
		parts = append(parts, failStyle.Render("inconsistent"))
	}
	return strings.Join(parts, " ")
}
