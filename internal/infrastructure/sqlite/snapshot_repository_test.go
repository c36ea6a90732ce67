package sqlite

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/formdom/internal/snapshot"
)

func TestSnapshotRepository_SaveAndLatest(t *testing.T) {
	repo := openTestDB(t).SnapshotRepository()
	ctx := context.Background()

	first := snapshot.New("a.html", "#f", "get", "", false, []snapshot.ControlRecord{
		{Index: 0, Name: "email", Kind: "input", Valid: false},
	})
	require.NoError(t, repo.Save(ctx, first))
	require.Greater(t, first.ID(), int64(0))

	second := snapshot.New("a.html", "#f", "post", "/x", true, []snapshot.ControlRecord{
		{Index: 0, Name: "email", Kind: "input", Valid: true},
		{Index: 1, Name: "", Kind: "button", Valid: true},
	})
	require.NoError(t, repo.Save(ctx, second))

	got, err := repo.Latest(ctx, "a.html", "#f")
	require.NoError(t, err)
	require.Equal(t, second.GUID(), got.GUID())
	require.Equal(t, "post", got.Method())
	require.Equal(t, "/x", got.Action())
	require.True(t, got.Valid())
	require.Equal(t, second.Controls(), got.Controls())
	require.Empty(t, snapshot.Diff(second, got))
}

func TestSnapshotRepository_LatestNotFound(t *testing.T) {
	repo := openTestDB(t).SnapshotRepository()

	_, err := repo.Latest(context.Background(), "a.html", "#missing")
	require.ErrorIs(t, err, snapshot.ErrNotFound)
}

func TestSnapshotRepository_List(t *testing.T) {
	repo := openTestDB(t).SnapshotRepository()
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Save(ctx, snapshot.New("a.html", fmt.Sprintf("form[%d]", i), "get", "", true, nil)))
	}
	require.NoError(t, repo.Save(ctx, snapshot.New("b.html", "form[0]", "get", "", true, nil)))

	all, err := repo.List(ctx, "a.html", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "form[2]", all[0].FormKey(), "newest first")

	limited, err := repo.List(ctx, "a.html", 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)

	none, err := repo.List(ctx, "c.html", 0)
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestSnapshotRepository_RoundTripProperty(t *testing.T) {
	repo := openTestDB(t).SnapshotRepository()
	ctx := context.Background()

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 8).Draw(t, "controls")
		records := make([]snapshot.ControlRecord, n)
		for i := range records {
			records[i] = snapshot.ControlRecord{
				Index: i,
				Name:  rapid.StringMatching(`[a-z]{0,6}`).Draw(t, "name"),
				Kind:  rapid.SampledFrom([]string{"input", "button", "select", "textarea"}).Draw(t, "kind"),
				Valid: rapid.Bool().Draw(t, "valid"),
			}
		}
		key := rapid.StringMatching(`#[a-z]{1,8}`).Draw(t, "key")
		s := snapshot.New("prop.html", key, "get", "", rapid.Bool().Draw(t, "formValid"), records)

		if err := repo.Save(ctx, s); err != nil {
			t.Fatalf("save: %v", err)
		}
		got, err := repo.Latest(ctx, "prop.html", key)
		if err != nil {
			t.Fatalf("latest: %v", err)
		}
		if got.GUID() != s.GUID() {
			t.Fatalf("latest returned %s, want %s", got.GUID(), s.GUID())
		}
		if d := snapshot.Diff(s, got); d != "" {
			t.Fatalf("round trip changed snapshot:\n%s", d)
		}
	})
}
