package scene

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portal-data/internal/geo"
)

const sampleScene = `{
  "portals": [
    {"guid": "A", "latE6": 10000000, "lngE6": 20000000, "resCount": 8, "team": "RESISTANCE", "title": "Fountain"},
    {"guid": "B", "latE6": 10001000, "lngE6": 20001000, "resCount": 3}
  ],
  "links": [
    {"guid": "L1", "oGuid": "A", "oLatE6": 10000000, "oLngE6": 20000000, "dGuid": "B", "dLatE6": 10001000, "dLngE6": 20001000}
  ],
  "fields": [
    {"guid": "F1", "points": [
      {"guid": "A", "latE6": 10000000, "lngE6": 20000000},
      {"guid": "B", "latE6": 10001000, "lngE6": 20001000},
      {"guid": "C", "latE6": 10002000, "lngE6": 20000000}
    ]}
  ]
}`

func TestLoadPopulatesRegistry(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, Load(strings.NewReader(sampleScene), reg))

	p, ok := reg.Portal("A")
	require.True(t, ok)
	assert.Equal(t, geo.New(10000000, 20000000), p.Coord)
	assert.Equal(t, 8, p.ResCount)
	assert.Equal(t, "Fountain", p.Title)

	links := reg.Links()
	require.Len(t, links, 1)
	assert.Equal(t, "A", links[0].Origin.GUID)
	assert.Equal(t, "B", links[0].Dest.GUID)
	assert.Equal(t, geo.New(10001000, 20001000), links[0].Dest.Coord)

	fields := reg.Fields()
	require.Len(t, fields, 1)
	assert.Equal(t, "C", fields[0].Points[2].GUID)
}

func TestLoadRejectsDegenerateField(t *testing.T) {
	bad := `{"fields":[{"guid":"F","points":[{"guid":"A"},{"guid":"B"}]}]}`
	err := Load(strings.NewReader(bad), NewRegistry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want 3 points")
}

func TestLoadFileMissingIsEmpty(t *testing.T) {
	reg, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Empty(t, reg.Portals())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleScene), 0o644))
	reg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, reg.Portals(), 2)
}

func TestRegistryKeepsInsertionOrderAndDedups(t *testing.T) {
	reg := NewRegistry()
	reg.PutPortal(Portal{GUID: "x", ResCount: 1})
	reg.PutPortal(Portal{GUID: "y"})
	reg.PutPortal(Portal{GUID: "x", ResCount: 5})

	ps := reg.Portals()
	require.Len(t, ps, 2)
	assert.Equal(t, "x", ps[0].GUID)
	assert.Equal(t, 5, ps[0].ResCount)

	reg.RemovePortal("x")
	ps = reg.Portals()
	require.Len(t, ps, 1)
	assert.Equal(t, "y", ps[0].GUID)
	_, ok := reg.Portal("x")
	assert.False(t, ok)
}

func TestSnapshotIsIsolatedFromLaterWrites(t *testing.T) {
	reg := NewRegistry()
	reg.PutLink(Link{GUID: "L1"})
	snap := reg.Snapshot()
	reg.PutLink(Link{GUID: "L2"})
	reg.RemoveLink("L1")

	require.Len(t, snap.Links(), 1)
	assert.Equal(t, "L1", snap.Links()[0].GUID)
	assert.Len(t, reg.Links(), 1)
}

func TestNilSnapshotIsEmpty(t *testing.T) {
	var s *Snapshot
	_, ok := s.Portal("A")
	assert.False(t, ok)
	assert.Empty(t, s.Portals())
	assert.Empty(t, s.Links())
	assert.Empty(t, s.Fields())
}

func TestRegistryAccessorsReturnOwnedCopies(t *testing.T) {
	reg := NewRegistry()
	reg.PutPortal(Portal{GUID: "P"})
	reg.PutLink(Link{GUID: "L1"})
	reg.PutField(Field{GUID: "F1"})

	ls := reg.Links()
	require.Len(t, ls, 1)
	ls[0].GUID = "changed"
	assert.Equal(t, "L1", reg.Links()[0].GUID)

	fs := reg.Fields()
	fs[0].Team = "ENLIGHTENED"
	assert.Empty(t, reg.Fields()[0].Team)

	ps := reg.Portals()
	ps[0].Title = "changed"
	p, ok := reg.Portal("P")
	require.True(t, ok)
	assert.Empty(t, p.Title)
}
