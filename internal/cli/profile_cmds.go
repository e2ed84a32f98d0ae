package cli

import (
	"context"
	"fmt"

	"github.com/hbjs97/cprof/internal/manager"
	"github.com/spf13/cobra"
)

type operation func(ctx context.Context, m *manager.Manager) (string, error)

// runOp는 작업 표면을 조립해 op를 실행하고 결과 텍스트를 출력한다.
func (a *App) runOp(cmd *cobra.Command, op operation) error {
	c, err := a.build()
	if err != nil {
		return err
	}
	out, err := op(cmd.Context(), c.manager)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

func (a *App) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "프로필 목록을 표시한다",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runOp(cmd, func(ctx context.Context, m *manager.Manager) (string, error) {
				return m.ListProfiles(ctx)
			})
		},
	}
}

func (a *App) newSwitchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "switch <name>",
		Short: "프로필을 전환한다",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runOp(cmd, func(ctx context.Context, m *manager.Manager) (string, error) {
				return m.SwitchProfile(ctx, args[0])
			})
		},
	}
}

func (a *App) newInitCmd() *cobra.Command {
	var account string
	cmd := &cobra.Command{
		Use:   "init <name>",
		Short: "현재 설정으로 새 프로필을 만든다",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runOp(cmd, func(ctx context.Context, m *manager.Manager) (string, error) {
				return m.InitProfile(ctx, args[0], account)
			})
		},
	}
	cmd.Flags().StringVar(&account, "account", "", "연결할 GitHub 계정")
	return cmd
}

func (a *App) newRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "프로필 이름을 바꾼다",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runOp(cmd, func(ctx context.Context, m *manager.Manager) (string, error) {
				return m.RenameProfile(ctx, args[0], args[1])
			})
		},
	}
}

func (a *App) newOpenCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "open",
		Short: "앱을 연다",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runOp(cmd, func(ctx context.Context, m *manager.Manager) (string, error) {
				return m.OpenApp(ctx, name)
			})
		},
	}
	cmd.Flags().StringVar(&name, "profile", "", "열 프로필 (builtin 모드 전용)")
	return cmd
}

func (a *App) newLinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "link <name> <account>",
		Short: "프로필에 GitHub 계정을 연결한다",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runOp(cmd, func(ctx context.Context, m *manager.Manager) (string, error) {
				return m.LinkIdentity(ctx, args[0], args[1])
			})
		},
	}
}

func (a *App) newUnlinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unlink <name>",
		Short: "프로필의 GitHub 계정 연결을 해제한다",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runOp(cmd, func(ctx context.Context, m *manager.Manager) (string, error) {
				return m.UnlinkIdentity(ctx, args[0])
			})
		},
	}
}

func (a *App) newRepairCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repair [name]",
		Short: "두 라이브 경로를 같은 프로필로 다시 맞춘다",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return a.runOp(cmd, func(ctx context.Context, m *manager.Manager) (string, error) {
				return m.Repair(ctx, name)
			})
		},
	}
}
