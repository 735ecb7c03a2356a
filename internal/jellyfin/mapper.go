package jellyfin

import "github.com/mmcdole/foyer/internal/domain"

// mapItem converts a Jellyfin item payload to a domain MediaItem
func mapItem(it Item) domain.MediaItem {
	m := domain.MediaItem{
		ID:            it.ID,
		Kind:          domain.MediaKind(it.Type),
		Name:          it.Name,
		SeriesID:      it.SeriesID,
		SeriesName:    it.SeriesName,
		SeasonID:      it.SeasonID,
		SeasonNum:     it.ParentIndexNumber,
		IndexNum:      it.IndexNumber,
		RunTimeTicks:  it.RunTimeTicks,
		ChannelNumber: it.ChannelNumber,
		ImageTag:      it.ImageTags.Primary,
	}
	if it.Type == "TvChannel" {
		// Jellyfin reports channels as TvChannel; the rest of the app
		// treats them as plain channels.
		m.Kind = domain.KindChannel
	}
	if ud := it.UserData; ud != nil {
		m.Played = ud.Played
		m.PositionTicks = ud.PlaybackPositionTicks
		m.UnplayedCount = ud.UnplayedItemCount
	}
	return m
}

// mapItems converts a batch of item payloads
func mapItems(items []Item) []domain.MediaItem {
	out := make([]domain.MediaItem, 0, len(items))
	for _, it := range items {
		out = append(out, mapItem(it))
	}
	return out
}

// mapSession converts a session payload to a domain RemoteSession
func mapSession(s Session) domain.RemoteSession {
	rs := domain.RemoteSession{
		SessionID:             s.ID,
		DeviceID:              s.DeviceID,
		DeviceName:            s.DeviceName,
		Client:                s.Client,
		SupportsRemoteControl: s.SupportsRemoteControl,
	}
	if np := s.NowPlayingItem; np != nil {
		tag := np.PrimaryImageTag
		if tag == "" {
			tag = np.ImageTags.Primary
		}
		rs.NowPlaying = &domain.NowPlayingItem{
			ID:           np.ID,
			Name:         np.Name,
			SeriesName:   np.SeriesName,
			SeasonNum:    np.ParentIndexNumber,
			EpisodeNum:   np.IndexNumber,
			Width:        np.Width,
			RunTimeTicks: np.RunTimeTicks,
			ImageTag:     tag,
		}
	}
	if ps := s.PlayState; ps != nil {
		rs.IsPaused = ps.IsPaused
		rs.PositionTicks = ps.PositionTicks
	}
	return rs
}
