// Package watch는 두 라이브 경로의 부모 디렉토리를 감시하고 링크 상태가 바뀔 때마다 알린다.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"reflect"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hbjs97/cprof/internal/logging"
	"github.com/hbjs97/cprof/internal/paths"
	"github.com/hbjs97/cprof/internal/profile"
	"github.com/rs/zerolog"
)

// DefaultDebounce는 연속 이벤트를 하나로 묶는 대기 시간이다.
const DefaultDebounce = 200 * time.Millisecond

// Inspector는 현재 링크 상태를 보고한다. profile.Store가 구현한다.
type Inspector interface {
	Inspect() profile.Report
}

// Watcher는 라이브 경로 변화를 감시한다.
type Watcher struct {
	insp     Inspector
	live     map[string]bool
	dirs     []string
	onChange func(profile.Report)
	debounce time.Duration
	log      zerolog.Logger
}

// New는 새 Watcher를 생성한다. onChange는 시작 시 한 번, 이후 상태가 바뀔 때마다 호출된다.
func New(insp Inspector, layout paths.Layout, onChange func(profile.Report)) *Watcher {
	w := &Watcher{
		insp:     insp,
		live:     make(map[string]bool),
		onChange: onChange,
		debounce: DefaultDebounce,
		log:      logging.Component("watch"),
	}
	seen := make(map[string]bool)
	for _, tree := range layout.Trees() {
		w.live[filepath.Clean(tree.Live)] = true
		dir := filepath.Dir(tree.Live)
		if !seen[dir] {
			seen[dir] = true
			w.dirs = append(w.dirs, dir)
		}
	}
	return w
}

// SetDebounce는 디바운스 시간을 바꾼다.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Run은 ctx가 끝날 때까지 감시한다. 감시할 수 있는 디렉토리가 하나도 없으면 에러를 반환한다.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch.Run: %w", err)
	}
	defer fsw.Close()

	added := 0
	for _, dir := range w.dirs {
		if err := fsw.Add(dir); err != nil {
			w.log.Warn().Err(err).Str("dir", dir).Msg("감시 추가 실패")
			continue
		}
		added++
	}
	if added == 0 {
		return fmt.Errorf("watch.Run: 감시할 디렉토리 없음: %v", w.dirs)
	}

	last := w.insp.Inspect()
	w.report(last)

	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.live[filepath.Clean(event.Name)] {
				continue
			}
			w.log.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("라이브 경로 이벤트")
			settle = time.After(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn().Err(err).Msg("감시 오류, 계속 진행")

		case <-settle:
			settle = nil
			current := w.insp.Inspect()
			if reflect.DeepEqual(current, last) {
				continue
			}
			last = current
			w.report(current)
		}
	}
}

func (w *Watcher) report(r profile.Report) {
	if !r.Consistent {
		ev := w.log.Warn()
		for _, t := range r.Trees {
			ev = ev.Str(t.Tree, fmt.Sprintf("%s %s", t.State, t.Profile))
		}
		ev.Msg("두 트리가 서로 다른 상태")
	}
	if w.onChange != nil {
		w.onChange(r)
	}
}
