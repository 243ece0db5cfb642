package engine

import (
	"crawler-server/pkg/api"
)

// BuildSnapshot - полный снимок мира для HTTP и рассылки после регенерации.
func BuildSnapshot(s Snapshot) api.WorldSnapshot {
	return api.NewWorldSnapshot(s.Players, s.Dungeon)
}

// BuildState - снимок текущего состояния мира.
func (w *World) BuildState() api.WorldSnapshot {
	return BuildSnapshot(w.Snapshot())
}
