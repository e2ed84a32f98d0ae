package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/hbjs97/cprof/internal/manager"
	"github.com/spf13/cobra"
)

func (a *App) newAccountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "gh에 로그인된 GitHub 계정을 표시한다",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runOp(cmd, func(ctx context.Context, m *manager.Manager) (string, error) {
				return m.ListAccounts(ctx)
			})
		},
	}
}

func (a *App) newCheckAuthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-auth [path]",
		Short: "리포 remote와 활성 GitHub 계정이 맞는지 점검한다",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := repoArg(args)
			if err != nil {
				return err
			}
			return a.runOp(cmd, func(ctx context.Context, m *manager.Manager) (string, error) {
				return m.CheckAuth(ctx, repo)
			})
		},
	}
}

func (a *App) newFixRemoteCmd() *cobra.Command {
	var account string
	cmd := &cobra.Command{
		Use:   "fix-remote [path]",
		Short: "origin remote URL에 GitHub 계정명을 넣는다",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := repoArg(args)
			if err != nil {
				return err
			}
			return a.runOp(cmd, func(ctx context.Context, m *manager.Manager) (string, error) {
				return m.FixRemote(ctx, repo, account)
			})
		},
	}
	cmd.Flags().StringVar(&account, "account", "", "넣을 GitHub 계정 (기본: remote owner)")
	return cmd
}

func (a *App) newSwitchAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "switch-account <account>",
		Short: "gh 활성 계정을 바꾼다",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runOp(cmd, func(ctx context.Context, m *manager.Manager) (string, error) {
				return m.SwitchAccount(ctx, args[0])
			})
		},
	}
}

// repoArg는 인자가 없으면 현재 디렉토리를 리포 경로로 쓴다.
func repoArg(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("cli.repoArg: %w", err)
	}
	return cwd, nil
}
