package store_test

import (
	"context"
	"errors"
	"testing"

	"nexus-gm/internal/session"
	"nexus-gm/internal/store"
	"nexus-gm/internal/testutil"
)

func sampleSnapshot(t *testing.T, id, channel string) session.Snapshot {
	t.Helper()
	sessions := session.NewStore(session.Options{})
	if _, err := sessions.Create(id, channel, "alice", session.ModeSolo); err != nil {
		t.Fatalf("create session: %v", err)
	}
	sessions.UpdateGameState(id, "opening", "Ash drifts.", []string{"Search", "Hide"}, "")
	if _, err := sessions.AddEvent(id, "scene", "Opening scene generated", nil); err != nil {
		t.Fatalf("add event: %v", err)
	}
	snap, err := sessions.Export(id)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	return snap
}

func TestStoreBootstrapPing(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()
	if err := st.Ping(context.Background()); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
}

func TestSnapshotSaveLoadAndUpsert(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()
	ctx := context.Background()

	snap := sampleSnapshot(t, "c1_alice_1", "c1")
	if err := st.SaveSnapshot(ctx, snap); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := st.LoadSnapshot(ctx, "c1_alice_1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Session.ID != snap.Session.ID || got.GameState.SceneDescription != "Ash drifts." || len(got.GameState.Events) != 1 {
		t.Fatalf("loaded snapshot = %+v", got)
	}

	snap.Session.Status = session.StatusCompleted
	if err := st.SaveSnapshot(ctx, snap); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	metas, err := st.ListSnapshots(ctx, "c1", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(metas) != 1 || metas[0].Status != "completed" || metas[0].UserIDs[0] != "alice" {
		t.Fatalf("metas = %+v", metas)
	}
}

func TestSnapshotNotFound(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()
	ctx := context.Background()

	if _, err := st.LoadSnapshot(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := st.DeleteSnapshot(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListSnapshotsFiltersChannel(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()
	ctx := context.Background()

	for _, s := range []session.Snapshot{
		sampleSnapshot(t, "a_1", "a"),
		sampleSnapshot(t, "b_1", "b"),
	} {
		if err := st.SaveSnapshot(ctx, s); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	all, _ := st.ListSnapshots(ctx, "", 10)
	onlyA, _ := st.ListSnapshots(ctx, "a", 10)
	if len(all) != 2 || len(onlyA) != 1 || onlyA[0].SessionID != "a_1" {
		t.Fatalf("all = %+v onlyA = %+v", all, onlyA)
	}
}
