package portaldata

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portal-data/internal/apgain"
	"portal-data/internal/detail"
	"portal-data/internal/geo"
	"portal-data/internal/scene"
)

var ctx = context.Background()

var (
	c1 = geo.New(10000000, 20000000)
	c2 = geo.New(10001000, 20001000)
	c3 = geo.New(10002000, 20000000)
)

func ep(guid string, pos geo.E6) scene.Endpoint { return scene.Endpoint{GUID: guid, Coord: pos} }

func newService(snap *scene.Snapshot, details detail.Source) *Service {
	return New(Deps{Portals: snap, Links: snap, Fields: snap, Details: details})
}

func TestFindPortalGuidByPositionE6(t *testing.T) {
	snap := scene.NewSnapshot([]scene.Portal{{GUID: "A", Coord: c1}}, nil, nil)
	s := newService(snap, nil)

	guid, ok := s.FindPortalGuidByPositionE6(10000000, 20000000)
	require.True(t, ok)
	assert.Equal(t, "A", guid)

	_, ok = s.FindPortalGuidByPositionE6(0, 0)
	assert.False(t, ok)
}

func TestPushedPositionIsFoundAfterPortalLeaves(t *testing.T) {
	reg := scene.NewRegistry()
	s := New(Deps{Portals: reg, Links: reg, Fields: reg})
	reg.PutPortal(scene.Portal{GUID: "A", Coord: c1})
	assert.Equal(t, 1, s.WarmFromPortals())

	reg.RemovePortal("A")
	s.PushPortalGuidPositionCache("B", 1, 2)

	guid, ok := s.FindPortalGuidByPositionE6(c1.Lat, c1.Lng)
	require.True(t, ok)
	assert.Equal(t, "A", guid)
	guid, ok = s.FindPortalGuidByPositionE6(1, 2)
	require.True(t, ok)
	assert.Equal(t, "B", guid)
	assert.Equal(t, 2, s.CacheLen())
}

func TestGetPortalFields(t *testing.T) {
	snap := scene.NewSnapshot(nil, nil, []scene.Field{
		{GUID: "F", Points: [3]scene.Endpoint{ep("A", c1), ep("B", c2), ep("C", c3)}},
	})
	s := newService(snap, nil)

	assert.Equal(t, []string{"F"}, s.GetPortalFields("B"))
	assert.Equal(t, []string{}, s.GetPortalFields("Z"))
	assert.Equal(t, 1, s.GetPortalFieldsCount("C"))
}

func TestGetPortalLinks(t *testing.T) {
	snap := scene.NewSnapshot(nil, []scene.Link{
		{GUID: "L1", Origin: ep("A", c1), Dest: ep("B", c2)},
		{GUID: "L2", Origin: ep("C", c3), Dest: ep("A", c1)},
	}, nil)
	s := newService(snap, nil)

	links := s.GetPortalLinks("A")
	assert.Equal(t, []string{"L1"}, links.Out)
	assert.Equal(t, []string{"L2"}, links.In)
	assert.Equal(t, 2, s.GetPortalLinksCount("A"))
	assert.Equal(t, 1, s.GetPortalLinksCount("B"))
}

func TestFindPortalLatLngUsesDetailCache(t *testing.T) {
	details := detail.NewMemory()
	details.Put(ctx, detail.Detail{GUID: "far", LatE6: -33868800, LngE6: 151209300})
	s := newService(scene.NewSnapshot(nil, nil, nil), details)

	pos, ok := s.FindPortalLatLng("far")
	require.True(t, ok)
	assert.InDelta(t, -33.8688, pos.LatLng().Lat, 1e-9)

	_, ok = s.FindPortalLatLng("unknown")
	assert.False(t, ok)
}

func TestGetPortalApGain(t *testing.T) {
	snap := scene.NewSnapshot(
		[]scene.Portal{{GUID: "A", Coord: c1, ResCount: 6}},
		[]scene.Link{{GUID: "L1", Origin: ep("A", c1), Dest: ep("B", c2)}},
		[]scene.Field{{GUID: "F", Points: [3]scene.Endpoint{ep("A", c1), ep("B", c2), ep("C", c3)}}},
	)
	s := newService(snap, nil)

	g, ok := s.GetPortalApGain("A")
	require.True(t, ok)
	assert.Equal(t, apgain.Compute(apgain.DefaultRewards(), 6, 1, 1), g)
	assert.Equal(t, 2*125+250, g.FriendlyAp)

	// B 只出现在链接与控制场中，不在渲染集合内
	_, ok = s.GetPortalApGain("B")
	assert.False(t, ok)
}

func TestCustomRewardsReachCalculator(t *testing.T) {
	r := apgain.Rewards{DeployResonator: 1}
	s := New(Deps{Rewards: &r})
	assert.Equal(t, 8, s.PortalApGainMaths(0, 0, 0).FriendlyAp)
	_, ok := s.GetPortalApGain("A")
	assert.False(t, ok)
	assert.Equal(t, 0, s.WarmFromPortals())
}
