package config

import "testing"

func TestIsConfigured(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.IsConfigured() {
		t.Error("default config should not be configured")
	}

	cfg.Catalog.URL = "http://catalog"
	if cfg.IsConfigured() {
		t.Error("URL without API key should not count as configured")
	}

	cfg.Catalog.APIKey = "k"
	if !cfg.IsConfigured() {
		t.Error("catalog URL plus key should count as configured")
	}
}

func TestAddLiveTVTabMintsIdentityAndEnforcesCap(t *testing.T) {
	cfg := DefaultConfig()

	seen := make(map[string]bool)
	for i := 0; i < MaxLiveTVTabs; i++ {
		tab, err := cfg.AddLiveTVTab("Tab", TabModeDynamic)
		if err != nil {
			t.Fatalf("AddLiveTVTab %d: %v", i, err)
		}
		if tab.ID == "" {
			t.Fatal("tab without an id")
		}
		if seen[tab.ID] {
			t.Fatalf("duplicate tab id %q", tab.ID)
		}
		seen[tab.ID] = true
	}

	if _, err := cfg.AddLiveTVTab("One too many", TabModeDynamic); err == nil {
		t.Errorf("expected an error past %d tabs", MaxLiveTVTabs)
	}
	if len(cfg.LiveTV) != MaxLiveTVTabs {
		t.Errorf("tab count = %d, want %d", len(cfg.LiveTV), MaxLiveTVTabs)
	}
}

func TestRemoveLiveTVTabPreservesOrder(t *testing.T) {
	cfg := DefaultConfig()
	a, _ := cfg.AddLiveTVTab("A", TabModeDynamic)
	b, _ := cfg.AddLiveTVTab("B", TabModeStatic)
	c, _ := cfg.AddLiveTVTab("C", TabModeDynamic)
	bID, cID := b.ID, c.ID

	cfg.RemoveLiveTVTab(a.ID)

	if len(cfg.LiveTV) != 2 {
		t.Fatalf("tab count = %d, want 2", len(cfg.LiveTV))
	}
	if cfg.LiveTV[0].ID != bID || cfg.LiveTV[1].ID != cID {
		t.Error("remaining tabs out of order")
	}

	// Removing an unknown id changes nothing.
	cfg.RemoveLiveTVTab("nope")
	if len(cfg.LiveTV) != 2 {
		t.Error("removing an unknown id dropped a tab")
	}
}

func TestTabLookup(t *testing.T) {
	cfg := DefaultConfig()
	added, _ := cfg.AddLiveTVTab("Sports", TabModeStatic)

	got := cfg.Tab(added.ID)
	if got == nil || got.Name != "Sports" {
		t.Fatalf("Tab(%q) = %+v", added.ID, got)
	}

	// The returned pointer aliases the config so edits stick.
	got.ChannelIDs = []string{"c1"}
	if len(cfg.Tab(added.ID).ChannelIDs) != 1 {
		t.Error("tab edits did not persist through the lookup pointer")
	}

	if cfg.Tab("missing") != nil {
		t.Error("unknown id should return nil")
	}
}
