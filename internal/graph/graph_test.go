package graph

import "testing"

func TestAddEntityAssignsSequentialIDs(t *testing.T) {
	g := New(0)

	a, err := g.AddEntity(&Entity{Kind: KindFaction, Name: "The Compact"}, 0)
	if err != nil {
		t.Fatalf("add entity: %v", err)
	}
	b, err := g.AddEntity(&Entity{Kind: KindNPC, Name: "Adren Holt"}, 3)
	if err != nil {
		t.Fatalf("add entity: %v", err)
	}

	if a != 1 || b != 2 {
		t.Errorf("expected ids 1, 2; got %d, %d", a, b)
	}
	if got := g.Get(b); got == nil || got.CreatedAt != 3 || got.UpdatedAt != 3 {
		t.Errorf("entity %d not stamped with creation tick", b)
	}
}

func TestAddEntityKeepsSeedIDs(t *testing.T) {
	g := New(0)

	id, err := g.AddEntity(&Entity{ID: 7, Kind: KindLocation, Name: "Meridian"}, 0)
	if err != nil {
		t.Fatalf("add entity: %v", err)
	}
	if id != 7 {
		t.Fatalf("expected seed id 7, got %d", id)
	}

	next, err := g.AddEntity(&Entity{Kind: KindNPC, Name: "Bryga Holt"}, 0)
	if err != nil {
		t.Fatalf("add entity: %v", err)
	}
	if next != 8 {
		t.Errorf("sequence should advance past seed id: got %d, want 8", next)
	}

	if _, err := g.AddEntity(&Entity{ID: 7, Kind: KindNPC, Name: "Dup"}, 0); err == nil {
		t.Error("expected duplicate id to be rejected")
	}
}

func TestAddEntityRejectsUnknownKind(t *testing.T) {
	g := New(0)
	if _, err := g.AddEntity(&Entity{Kind: "spaceship", Name: "X"}, 0); err == nil {
		t.Error("expected unknown kind to be rejected")
	}
}

func TestAddRelationshipRejectsDanglingEndpoints(t *testing.T) {
	g := New(0)
	id, _ := g.AddEntity(&Entity{Kind: KindFaction, Name: "The Compact"}, 0)

	if err := g.AddRelationship(RelMemberOf, id, 99); err == nil {
		t.Error("expected dangling dst to be rejected")
	}
	if err := g.AddRelationship(RelMemberOf, 99, id); err == nil {
		t.Error("expected dangling src to be rejected")
	}
	if len(g.Relationships) != 0 {
		t.Errorf("rejected relationships must not mutate the graph, got %d edges", len(g.Relationships))
	}
}

func TestAddRelationshipAllowsDuplicates(t *testing.T) {
	g := New(0)
	a, _ := g.AddEntity(&Entity{Kind: KindFaction, Name: "A"}, 0)
	b, _ := g.AddEntity(&Entity{Kind: KindAbility, Name: "B"}, 0)

	for i := 0; i < 3; i++ {
		if err := g.AddRelationship(RelSeeks, a, b); err != nil {
			t.Fatalf("duplicate edge %d rejected: %v", i, err)
		}
	}
	if len(g.Relationships) != 3 {
		t.Errorf("expected 3 duplicate edges, got %d", len(g.Relationships))
	}
}

func TestRelationshipCapPerKind(t *testing.T) {
	g := New(2)
	a, _ := g.AddEntity(&Entity{Kind: KindFaction, Name: "A"}, 0)
	b, _ := g.AddEntity(&Entity{Kind: KindLocation, Name: "B"}, 0)

	for i := 0; i < 2; i++ {
		if err := g.AddRelationship(RelTradesWith, a, b); err != nil {
			t.Fatalf("edge %d rejected below cap: %v", i, err)
		}
	}
	if err := g.AddRelationship(RelTradesWith, a, b); err == nil {
		t.Error("expected cap to reject third trades_with edge")
	}
	// Other kinds are unaffected.
	if err := g.AddRelationship(RelControls, a, b); err != nil {
		t.Errorf("cap must be per kind: %v", err)
	}
}

func TestDegreeCountsBothDirections(t *testing.T) {
	g := New(0)
	a, _ := g.AddEntity(&Entity{Kind: KindNPC, Name: "A", Status: StatusAlive}, 0)
	b, _ := g.AddEntity(&Entity{Kind: KindFaction, Name: "B"}, 0)
	c, _ := g.AddEntity(&Entity{Kind: KindFaction, Name: "C"}, 0)

	g.AddRelationship(RelMemberOf, a, b)
	g.AddRelationship(RelControls, c, a)

	if got := g.Degree(a); got != 2 {
		t.Errorf("degree(a) = %d, want 2", got)
	}
	if got := g.Degree(b); got != 1 {
		t.Errorf("degree(b) = %d, want 1", got)
	}
}

func TestPressureClamping(t *testing.T) {
	g := New(0)

	g.SetPressure("unrest", 150)
	if got := g.Pressures["unrest"]; got != 100 {
		t.Errorf("set: got %g, want 100", got)
	}
	g.AdjustPressure("unrest", -500)
	if got := g.Pressures["unrest"]; got != 0 {
		t.Errorf("adjust: got %g, want 0", got)
	}
}

func TestHistoryTail(t *testing.T) {
	g := New(0)
	for i := 0; i < 10; i++ {
		g.AppendHistory(HistoryEvent{Tick: uint64(i), Type: EventSimulation})
	}

	tail := g.HistoryTail(3)
	if len(tail) != 3 {
		t.Fatalf("tail length %d, want 3", len(tail))
	}
	if tail[0].Tick != 7 || tail[2].Tick != 9 {
		t.Errorf("tail ticks %d..%d, want 7..9", tail[0].Tick, tail[2].Tick)
	}

	if got := g.HistoryTail(50); len(got) != 10 {
		t.Errorf("oversized tail request should return all %d events, got %d", 10, len(got))
	}
}

func TestExportCopiesState(t *testing.T) {
	g := New(0)
	id, _ := g.AddEntity(&Entity{Kind: KindNPC, Name: "A", Status: StatusAlive}, 0)
	g.SetPressure("unrest", 42)

	snap := g.Export(10, 2, "The Founding")
	if snap.Meta.Tick != 10 || snap.Meta.Epoch != 2 || snap.Meta.Era != "The Founding" {
		t.Errorf("unexpected meta: %+v", snap.Meta)
	}
	if snap.Meta.EntityCount != 1 {
		t.Fatalf("entity count %d, want 1", snap.Meta.EntityCount)
	}

	// Mutating the snapshot must not touch the graph.
	snap.Entities[0].Status = StatusDead
	snap.Pressures["unrest"] = 0
	if g.Get(id).Status != StatusAlive {
		t.Error("snapshot entities must be copies")
	}
	if g.Pressures["unrest"] != 42 {
		t.Error("snapshot pressures must be copies")
	}
}

func TestProminenceRoundTrip(t *testing.T) {
	for p := ProminenceForgotten; p <= ProminenceMythic; p++ {
		parsed, err := ParseProminence(ProminenceName(p))
		if err != nil {
			t.Fatalf("parse %q: %v", ProminenceName(p), err)
		}
		if parsed != p {
			t.Errorf("round trip %d -> %q -> %d", p, ProminenceName(p), parsed)
		}
	}
	if _, err := ParseProminence("legendary"); err == nil {
		t.Error("expected unknown prominence label to fail")
	}
}
