package models

import "time"

// SnapshotSource tells a subscriber what produced a snapshot.
type SnapshotSource string

const (
	SourceLocal    SnapshotSource = "local"
	SourceRemote   SnapshotSource = "remote"
	SourceMutation SnapshotSource = "mutation"
)

// Snapshot is the ordered list of entities most recently pushed to a screen.
// It is rebuilt on every push and never persisted.
type Snapshot struct {
	Scope    Scope
	Entities []Entity
	Checksum int64
	Source   SnapshotSource
	At       time.Time
}

// NewSnapshot builds a snapshot and computes its checksum.
func NewSnapshot(scope Scope, entities []Entity, source SnapshotSource) Snapshot {
	return Snapshot{
		Scope:    scope,
		Entities: entities,
		Checksum: Checksum(entities),
		Source:   source,
		At:       time.Now().UTC(),
	}
}

func (s Snapshot) Len() int {
	return len(s.Entities)
}

func (s Snapshot) Empty() bool {
	return len(s.Entities) == 0
}
