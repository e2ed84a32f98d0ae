package manager

import (
	"context"
	"encoding/json"

	"github.com/hbjs97/cprof/internal/profile"
	"golang.org/x/sync/errgroup"
)

// Snapshot은 읽기 전용 집계 상태다.
type Snapshot struct {
	OS            string            `json:"os"`
	App           string            `json:"app"`
	LaunchMode    string            `json:"launch_mode"`
	Paths         map[string]string `json:"paths"`
	Profiles      []profile.Entry   `json:"profiles"`
	Identities    map[string]string `json:"identities"`
	ActiveProfile string            `json:"active_profile,omitempty"`
	ActiveAccount string            `json:"active_account,omitempty"`
	AppRunning    string            `json:"app_running"`
	Links         profile.Report    `json:"links"`
}

// Snapshot은 현재 상태를 모은다. 프로세스 조회와 gh 계정 조회는 동시에 수행한다.
// 두 조회 모두 실패를 빈 값/unknown으로 접으므로 에러는 ctx 취소일 때만 반환된다.
func (m *Manager) Snapshot(ctx context.Context) (Snapshot, error) {
	layout := m.profiles.Layout()
	snap := Snapshot{
		OS:         string(layout.Family),
		App:        m.appName,
		LaunchMode: string(m.launcher.Mode()),
		Paths:      layout.Map(),
		Profiles:   m.profiles.List(),
		Identities: m.identities.All(),
		Links:      m.profiles.Inspect(),
	}
	if name, ok := m.profiles.ActiveName(); ok {
		snap.ActiveProfile = name
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap.AppRunning = m.detector.Detect(gctx).String()
		return nil
	})
	g.Go(func() error {
		if name, ok := m.remote.ActiveAccount(gctx); ok {
			snap.ActiveAccount = name
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// SnapshotJSON은 Snapshot을 들여쓴 JSON으로 반환한다.
func (m *Manager) SnapshotJSON(ctx context.Context) (string, error) {
	snap, err := m.Snapshot(ctx)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
