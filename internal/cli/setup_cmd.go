package cli

import (
	"fmt"

	"github.com/hbjs97/cprof/internal/setup"
	"github.com/spf13/cobra"
)

func (a *App) newSetupCmd() *cobra.Command {
	var template, force bool
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "cprof 설정 파일을 만든다",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if template {
				if err := setup.WriteTemplate(a.CfgPath, force); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "설정 파일이 생성되었습니다: %s\n", a.CfgPath)
				fmt.Fprintln(cmd.OutOrStdout(), "값을 수정한 후 cprof doctor로 환경을 확인하세요.")
				return nil
			}
			form := a.FormRunner
			if form == nil {
				form = &setup.HuhFormRunner{}
			}
			r := &setup.Runner{
				CfgPath:    a.CfgPath,
				Commander:  a.Commander,
				FormRunner: form,
				Lister:     a.Lister,
				Family:     a.Family,
				Home:       a.Home,
				Out:        cmd.OutOrStdout(),
			}
			return r.Run(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&template, "template", false, "대화형 입력 없이 주석 달린 템플릿을 쓴다")
	cmd.Flags().BoolVar(&force, "force", false, "--template: 기존 설정 파일 덮어쓰기")
	return cmd
}
