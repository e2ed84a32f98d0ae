package profile

import (
	"path/filepath"
)

// LinkState는 라이브 경로의 상태다.
type LinkState string

const (
	StateAbsent    LinkState = "absent"
	StateSymlink   LinkState = "symlink"
	StateDangling  LinkState = "dangling"
	StateDirectory LinkState = "directory"
	StateOther     LinkState = "other"
)

// TreeState는 한 트리의 라이브 경로 상태다.
type TreeState struct {
	Tree    string    `json:"tree"`
	Live    string    `json:"live"`
	State   LinkState `json:"state"`
	Target  string    `json:"target,omitempty"`
	Profile string    `json:"profile,omitempty"`
}

// Report는 두 트리의 일관성 보고서다.
type Report struct {
	Trees      []TreeState `json:"trees"`
	Consistent bool        `json:"consistent"`
}

// Inspect는 두 라이브 경로를 읽기 전용으로 점검한다.
// 두 트리가 같은 프로필을 가리키는 링크이거나 둘 다 없을 때만 Consistent다.
func (s *Store) Inspect() Report {
	var r Report
	for _, tree := range s.layout.Trees() {
		r.Trees = append(r.Trees, s.inspectTree(tree.Name, tree.Live))
	}

	first := r.Trees[0]
	r.Consistent = true
	for _, ts := range r.Trees[1:] {
		switch {
		case first.State == StateAbsent && ts.State == StateAbsent:
		case first.State == StateSymlink && ts.State == StateSymlink && first.Profile == ts.Profile:
		default:
			r.Consistent = false
		}
	}
	return r
}

func (s *Store) inspectTree(name, live string) TreeState {
	ts := TreeState{Tree: name, Live: live}
	info, err := lstat(s.fs, live)
	switch {
	case err != nil:
		ts.State = StateAbsent
	case isSymlink(info):
		target, _ := readLink(s.fs, live)
		ts.Target = target
		ts.Profile = filepath.Base(target)
		if isDir(s.fs, target) {
			ts.State = StateSymlink
		} else {
			ts.State = StateDangling
		}
	case info.IsDir():
		ts.State = StateDirectory
	default:
		ts.State = StateOther
	}
	return ts
}
