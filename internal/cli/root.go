package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/hbjs97/cprof/internal/cmdexec"
	"github.com/hbjs97/cprof/internal/config"
	"github.com/hbjs97/cprof/internal/guard"
	"github.com/hbjs97/cprof/internal/logging"
	"github.com/hbjs97/cprof/internal/paths"
	"github.com/hbjs97/cprof/internal/setup"
	"github.com/spf13/cobra"
)

// Version은 빌드 시 -ldflags로 덮어쓴다.
var Version = "dev"

// App은 CLI 실행에 필요한 외부 의존성을 묶는다. 테스트에서는 필드를 직접 채운다.
type App struct {
	Commander  cmdexec.Commander
	CfgPath    string
	Lister     guard.Lister
	FormRunner setup.FormRunner
	Family     paths.Family
	Home       string
	// LogPath가 비어있으면 파일 로그를 남기지 않는다.
	LogPath string
	Stdin   io.Reader

	verbosity int
	noOpen    bool
	closeLog  func() error
}

// NewApp은 실제 환경에 연결된 App을 생성한다.
func NewApp() *App {
	return &App{
		Commander:  &cmdexec.RealCommander{},
		CfgPath:    paths.DefaultConfigPath(),
		Lister:     guard.ProcessLister{},
		FormRunner: &setup.HuhFormRunner{},
		Family:     paths.Detect(),
		Home:       homeDir(),
		LogPath:    paths.DefaultLogPath(),
		Stdin:      os.Stdin,
	}
}

// NewRootCmd는 cprof CLI의 루트 명령을 생성한다.
func (a *App) NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "cprof",
		Short:        "IDE 설정 프로필 매니저",
		Version:      Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.setupLogging(cmd.ErrOrStderr())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.closeLog != nil {
				_ = a.closeLog()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&a.CfgPath, "config", a.CfgPath, "설정 파일 경로")
	cmd.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", "상세 출력 (-v info, -vv debug)")
	cmd.PersistentFlags().BoolVar(&a.noOpen, "no-open", false, "전환 후 앱을 자동으로 열지 않음")

	cmd.AddCommand(
		a.newListCmd(),
		a.newSwitchCmd(),
		a.newInitCmd(),
		a.newRenameCmd(),
		a.newOpenCmd(),
		a.newLinkCmd(),
		a.newUnlinkCmd(),
		a.newAccountsCmd(),
		a.newCheckAuthCmd(),
		a.newFixRemoteCmd(),
		a.newSwitchAccountCmd(),
		a.newStatusCmd(),
		a.newRepairCmd(),
		a.newDoctorCmd(),
		a.newWatchCmd(),
		a.newSetupCmd(),
		a.newServeCmd(),
	)
	return cmd
}

// setupLogging은 설정 파일의 [log]와 -v를 반영해 전역 로거를 구성한다.
// 설정 파일이 깨져 있어도 로깅은 기본값으로 진행하고, 에러는 각 명령이 보고한다.
func (a *App) setupLogging(console io.Writer) {
	lc := config.LogConfig{}
	if cfg, err := config.Load(a.CfgPath); err == nil {
		lc = cfg.Log
	}
	a.closeLog = logging.Setup(logging.Config{
		Verbosity:  a.verbosity,
		Level:      lc.Level,
		FilePath:   a.LogPath,
		MaxSizeMB:  lc.MaxSizeMB,
		MaxBackups: lc.MaxBackups,
		Console:    console,
	})
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "경고: 홈 디렉토리 확인 실패: %v\n", err)
		return "."
	}
	return home
}
