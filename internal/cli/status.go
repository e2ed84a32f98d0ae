package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/hbjs97/cprof/internal/manager"
	"github.com/hbjs97/cprof/internal/profile"
	"github.com/spf13/cobra"
)

func (a *App) newStatusCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "활성 프로필, 계정, 링크 상태를 표시한다",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runStatus(cmd.Context(), cmd.OutOrStdout(), asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "JSON으로 출력")
	return cmd
}

func (a *App) runStatus(ctx context.Context, w io.Writer, asJSON bool) error {
	c, err := a.build()
	if err != nil {
		return err
	}
	if asJSON {
		text, err := c.manager.SnapshotJSON(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, text)
		return nil
	}

	snap, err := c.manager.Snapshot(ctx)
	if err != nil {
		return err
	}
	renderStatus(w, snap)
	return nil
}

func renderStatus(w io.Writer, snap manager.Snapshot) {
	row := func(label, value string) {
		fmt.Fprintf(w, "%s%s\n", labelStyle.Render(label), value)
	}
	orNone := func(s string) string {
		if s == "" {
			return dimStyle.Render("(none)")
		}
		return s
	}

	row("App", fmt.Sprintf("%s (%s, %s)", snap.App, snap.LaunchMode, snap.OS))
	row("Profile", orNone(snap.ActiveProfile))
	row("Account", orNone(snap.ActiveAccount))
	row("Running", snap.AppRunning)

	fmt.Fprintln(w, titleStyle.Render("Links"))
	for _, t := range snap.Links.Trees {
		target := t.Target
		if target == "" {
			target = "-"
		}
		fmt.Fprintf(w, "  %-5s %s -> %s %s\n", t.Tree, t.Live, target, linkState(t.State))
	}
	if snap.Links.Consistent {
		fmt.Fprintf(w, "  %s\n", okStyle.Render("consistent"))
	} else {
		fmt.Fprintf(w, "  %s (cprof repair)\n", failStyle.Render("inconsistent"))
	}

	fmt.Fprintln(w, titleStyle.Render("Profiles"))
	if len(snap.Profiles) == 0 {
		fmt.Fprintf(w, "  %s\n", dimStyle.Render("No profiles found"))
	}
	for _, e := range snap.Profiles {
		mark := " "
		if e.Active {
			mark = okStyle.Render("*")
		}
		line := fmt.Sprintf("  %s %s", mark, e.Name)
		if account, ok := snap.Identities[e.Name]; ok {
			line += " (gh: " + account + ")"
		}
		if !e.Complete {
			line += " " + warnStyle.Render("[incomplete]")
		}
		fmt.Fprintln(w, line)
	}
}

func linkState(s profile.LinkState) string {
	switch s {
	case profile.StateSymlink:
		return okStyle.Render("[" + string(s) + "]")
	case profile.StateAbsent, profile.StateDirectory:
		return warnStyle.Render("[" + string(s) + "]")
	default:
		return failStyle.Render("[" + string(s) + "]")
	}
}
