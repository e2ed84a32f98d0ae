package cli

import (
	"fmt"
	"io"

	"github.com/hbjs97/cprof/internal/doctor"
	"github.com/spf13/cobra"
)

func (a *App) newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "환경 설정을 진단한다",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			c, err := a.build()
			if err != nil {
				// 설정 없이도 바이너리 점검은 가능하다
				fmt.Fprintf(w, "  [%s] config: %v\n", statusIcon(doctor.StatusFail), err)
				fmt.Fprintln(w, "      Fix: cprof setup 실행 또는 설정 파일 확인")
				printDiagResults(w, doctor.CheckBinaries(cmd.Context(), a.Commander))
				return nil
			}
			printDiagResults(w, doctor.RunAll(cmd.Context(), doctor.Deps{
				Cmd:       a.Commander,
				Host:      c.cfg.GitHost,
				Inspector: c.store,
				Detector:  c.guard,
			}))
			return nil
		},
	}
}

// printDiagResults는 진단 결과 목록을 출력한다.
func printDiagResults(w io.Writer, results []doctor.DiagResult) {
	for _, r := range results {
		fmt.Fprintf(w, "  [%s] %s: %s\n", statusIcon(r.Status), r.Name, r.Message)
		if r.Fix != "" {
			fmt.Fprintf(w, "      Fix: %s\n", dimStyle.Render(r.Fix))
		}
	}
}
