package cli

import (
	"github.com/hbjs97/cprof/internal/config"
	"github.com/hbjs97/cprof/internal/guard"
	"github.com/hbjs97/cprof/internal/identity"
	"github.com/hbjs97/cprof/internal/launcher"
	"github.com/hbjs97/cprof/internal/manager"
	"github.com/hbjs97/cprof/internal/profile"
	"github.com/hbjs97/cprof/internal/remote"
	"github.com/spf13/afero"
)

// components는 설정에서 조립한 도메인 구성 요소다.
type components struct {
	cfg     *config.Config
	store   *profile.Store
	guard   *guard.Guard
	manager *manager.Manager
}

// build는 설정 파일을 읽어 작업 표면을 조립한다.
func (a *App) build() (*components, error) {
	cfg, err := config.Load(a.CfgPath)
	if err != nil {
		return nil, err
	}

	lister := a.Lister
	if lister == nil {
		lister = guard.ProcessLister{}
	}
	names := cfg.ProcessNames
	if len(names) == 0 {
		names = guard.DefaultProcessNames(a.Family, cfg.AppName)
	}
	g := guard.New(lister, a.Family, names)

	var opts []profile.Option
	if cfg.LaunchMode == config.LaunchBuiltin {
		opts = append(opts, profile.WithDisplayNames())
	}
	store := profile.NewStore(profile.OSFS(), cfg.Layout(a.Family, a.Home), g, opts...)

	m := manager.New(manager.Deps{
		AppName:    cfg.AppName,
		Profiles:   store,
		Identities: identity.NewStore(afero.NewOsFs(), cfg.IdentitiesFile()),
		Remote:     remote.New(a.Commander, cfg.GitHost),
		Launcher:   launcher.New(a.Commander, a.Family, cfg.AppName, cfg.LaunchMode, cfg.LaunchCommand),
		Detector:   g,
		AutoOpen:   cfg.IsAutoOpen() && !a.noOpen,
	})
	return &components{cfg: cfg, store: store, guard: g, manager: m}, nil
}
