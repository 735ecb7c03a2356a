package service

import (
	"reflect"
	"testing"

	"github.com/mmcdole/foyer/internal/config"
	"github.com/mmcdole/foyer/internal/domain"
)

func channel(id, name, number string) domain.MediaItem {
	return domain.MediaItem{ID: id, Kind: domain.KindChannel, Name: name, ChannelNumber: number}
}

func lineup() []domain.MediaItem {
	return []domain.MediaItem{
		channel("c1", "News One", "2.1"),
		channel("c2", "Sports Net", "5.1"),
		channel("c3", "Movie Max", "7.2"),
		channel("c4", "Kids Zone", "9.1"),
	}
}

func TestResolveTabDynamicMirrorsLineup(t *testing.T) {
	tab := config.LiveTVTab{ID: "t1", Name: "All", Mode: config.TabModeDynamic}

	got := ResolveTab(tab, lineup())

	if len(got) != 4 {
		t.Fatalf("expected full lineup, got %d channels", len(got))
	}
}

func TestResolveTabStaticKeepsLineupOrder(t *testing.T) {
	// Pin order differs from lineup order on purpose.
	tab := config.LiveTVTab{ID: "t1", Name: "Picks", Mode: config.TabModeStatic, ChannelIDs: []string{"c3", "c1"}}

	got := ResolveTab(tab, lineup())

	if len(got) != 2 {
		t.Fatalf("expected 2 channels, got %d", len(got))
	}
	if got[0].ID != "c1" || got[1].ID != "c3" {
		t.Errorf("expected lineup order c1,c3, got %s,%s", got[0].ID, got[1].ID)
	}
}

func TestResolveTabStaticDropsMissingChannels(t *testing.T) {
	tab := config.LiveTVTab{ID: "t1", Mode: config.TabModeStatic, ChannelIDs: []string{"c2", "gone"}}

	got := ResolveTab(tab, lineup())

	if len(got) != 1 || got[0].ID != "c2" {
		t.Fatalf("expected only c2, got %d channels", len(got))
	}
}

func TestFilterChannelsMatchesNameAndNumber(t *testing.T) {
	byName := FilterChannels(lineup(), "sports")
	if len(byName) != 1 || byName[0].ID != "c2" {
		t.Fatalf("name filter: expected c2, got %d channels", len(byName))
	}

	byNumber := FilterChannels(lineup(), "7.2")
	if len(byNumber) != 1 || byNumber[0].ID != "c3" {
		t.Fatalf("number filter: expected c3, got %d channels", len(byNumber))
	}

	all := FilterChannels(lineup(), "  ")
	if len(all) != 4 {
		t.Fatalf("blank filter: expected full lineup, got %d channels", len(all))
	}
}

func TestSelectMatchingIsIdempotent(t *testing.T) {
	matched := FilterChannels(lineup(), "n") // News One, Sports Net, Kids Zone

	once := SelectMatching([]string{"c3"}, matched)
	twice := SelectMatching(once, matched)

	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("second apply changed the selection: %v vs %v", once, twice)
	}
	if once[0] != "c3" {
		t.Errorf("existing selection order lost, got %v", once)
	}

	seen := make(map[string]bool)
	for _, id := range twice {
		if seen[id] {
			t.Errorf("duplicate id %q in selection", id)
		}
		seen[id] = true
	}
}

func TestToggleChannel(t *testing.T) {
	sel := ToggleChannel(nil, "c1")
	if len(sel) != 1 || sel[0] != "c1" {
		t.Fatalf("expected [c1], got %v", sel)
	}

	sel = ToggleChannel(sel, "c2")
	sel = ToggleChannel(sel, "c1")
	if len(sel) != 1 || sel[0] != "c2" {
		t.Fatalf("expected [c2], got %v", sel)
	}
}
