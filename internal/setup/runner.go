package setup

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/hbjs97/cprof/internal/cmdexec"
	"github.com/hbjs97/cprof/internal/config"
	"github.com/hbjs97/cprof/internal/doctor"
	"github.com/hbjs97/cprof/internal/gh"
	"github.com/hbjs97/cprof/internal/guard"
	"github.com/hbjs97/cprof/internal/identity"
	"github.com/hbjs97/cprof/internal/paths"
	"github.com/hbjs97/cprof/internal/profile"
	"github.com/spf13/afero"
)

// Runner는 interactive setup의 진입점이다.
type Runner struct {
	CfgPath    string
	Commander  cmdexec.Commander
	FormRunner FormRunner
	Lister     guard.Lister // 비어있으면 gopsutil 기반 조회.
	Family     paths.Family
	Home       string
	Out        io.Writer
}

// Run은 setup 플로우를 실행한다.
// 설정 저장, 계정 미연결 프로필의 계정 연결, 환경 진단 순서로 진행한다.
func (r *Runner) Run(ctx context.Context) error {
	cfg := config.Default()

	_, err := os.Stat(r.CfgPath)
	switch {
	case err == nil:
		loaded, err := config.Load(r.CfgPath)
		if err != nil {
			return err
		}
		cfg = loaded
		ok, err := r.FormRunner.RunConfirm(fmt.Sprintf("기존 설정(%s)을 수정하시겠습니까?", r.CfgPath))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(r.out(), "설정이 취소되었습니다.")
			return nil
		}
	case os.IsNotExist(err):
		fmt.Fprintln(r.out(), "cprof 초기 설정을 시작합니다.")
	default:
		return fmt.Errorf("setup.Run: %w", err)
	}

	input, err := r.FormRunner.RunSettingsForm(inputFromConfig(cfg))
	if err != nil {
		return err
	}
	input.apply(cfg)

	if err := config.Save(r.CfgPath, cfg); err != nil {
		return err
	}
	fmt.Fprintf(r.out(), "설정 파일이 저장되었습니다: %s\n", r.CfgPath)

	store := profile.NewStore(profile.OSFS(), cfg.Layout(r.Family, r.Home), nil)
	if err := r.bindIdentities(ctx, cfg, store); err != nil {
		return err
	}

	r.runDoctor(ctx, cfg, store)
	return nil
}

func (r *Runner) out() io.Writer {
	if r.Out == nil {
		return os.Stdout
	}
	return r.Out
}

// bindIdentities는 계정이 연결되지 않은 프로필마다 연결할 계정을 묻는다.
func (r *Runner) bindIdentities(ctx context.Context, cfg *config.Config, store *profile.Store) error {
	entries := store.List()
	if len(entries) == 0 {
		fmt.Fprintln(r.out(), "프로필이 없어 계정 연결을 건너뜁니다. cprof init <name> 으로 만드세요.")
		return nil
	}

	accounts, err := gh.NewAdapter(r.Commander).ListAccounts(ctx, cfg.GitHost)
	if err != nil || len(accounts) == 0 {
		fmt.Fprintf(r.out(), "%s에 로그인된 gh 계정이 없어 계정 연결을 건너뜁니다.\n", cfg.GitHost)
		return nil
	}
	usernames := make([]string, len(accounts))
	for i, a := range accounts {
		usernames[i] = a.Username
	}

	ids := identity.NewStore(afero.NewOsFs(), cfg.IdentitiesFile())
	for _, e := range entries {
		if _, ok := ids.Get(e.Name); ok {
			continue
		}
		selected, err := r.FormRunner.RunAccountSelect(e.Name, usernames)
		if err != nil {
			return err
		}
		if selected == skipAccount {
			continue
		}
		if err := ids.Set(e.Name, selected); err != nil {
			return err
		}
		fmt.Fprintf(r.out(), "%s -> %s 연결됨\n", e.Name, selected)
	}
	return nil
}

// runDoctor는 설정 완료 후 환경 진단을 실행한다.
func (r *Runner) runDoctor(ctx context.Context, cfg *config.Config, store *profile.Store) {
	lister := r.Lister
	if lister == nil {
		lister = guard.ProcessLister{}
	}
	names := cfg.ProcessNames
	if len(names) == 0 {
		names = guard.DefaultProcessNames(r.Family, cfg.AppName)
	}

	fmt.Fprintln(r.out(), "\n환경 진단 실행 중...")
	results := doctor.RunAll(ctx, doctor.Deps{
		Cmd:       r.Commander,
		Host:      cfg.GitHost,
		Inspector: store,
		Detector:  guard.New(lister, r.Family, names),
	})
	for _, res := range results {
		icon := "✓"
		if res.Status == doctor.StatusFail {
			icon = "✗"
		} else if res.Status == doctor.StatusWarn {
			icon = "!"
		}
		fmt.Fprintf(r.out(), "  [%s] %s: %s\n", icon, res.Name, res.Message)
		if res.Fix != "" {
			fmt.Fprintf(r.out(), "      Fix: %s\n", res.Fix)
		}
	}
}
