package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/mmcdole/foyer/internal/domain"
)

// settleDelay gives the remote player time to tear down the current
// stream after Stop before a new Play lands. Sending them back to
// back makes some clients ignore the second command.
const settleDelay = 500 * time.Millisecond

// SessionService resolves the configured playback device among the
// server's active sessions and drives it.
type SessionService struct {
	catalog domain.CatalogClient
	target  string
	settle  time.Duration
	logger  *slog.Logger
}

// NewSessionService creates a session service bound to a device
// target. The target matches a session by device id, or by
// case-insensitive substring of the device name.
func NewSessionService(catalog domain.CatalogClient, target string, logger *slog.Logger) *SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{
		catalog: catalog,
		target:  strings.TrimSpace(target),
		settle:  settleDelay,
		logger:  logger,
	}
}

// SetTarget rebinds the service to a new device target. Called when
// the user changes the device in settings.
func (s *SessionService) SetTarget(target string) {
	s.target = strings.TrimSpace(target)
}

// Resolve finds the controllable session for the configured device
func (s *SessionService) Resolve(ctx context.Context) (*domain.RemoteSession, error) {
	if s.target == "" {
		return nil, domain.ErrNotConfigured
	}

	sessions, err := s.catalog.Sessions(ctx)
	if err != nil {
		return nil, err
	}

	for i := range sessions {
		if matchesTarget(&sessions[i], s.target) {
			return &sessions[i], nil
		}
	}
	return nil, domain.ErrDeviceNotFound
}

// Devices lists the server's active sessions for the settings scan,
// marking which one the current target resolves to.
func (s *SessionService) Devices(ctx context.Context) ([]domain.DeviceInfo, error) {
	sessions, err := s.catalog.Sessions(ctx)
	if err != nil {
		return nil, err
	}

	devices := make([]domain.DeviceInfo, 0, len(sessions))
	for i := range sessions {
		sess := &sessions[i]
		devices = append(devices, domain.DeviceInfo{
			ID:           sess.DeviceID,
			Name:         sess.DeviceName,
			Client:       sess.Client,
			Controllable: sess.SupportsRemoteControl,
			Current:      s.target != "" && matchesTarget(sess, s.target),
		})
	}
	return devices, nil
}

// Play starts playback of an item on the target device. If something
// is already playing it is stopped first and the player is given a
// settle window before the new item is sent.
func (s *SessionService) Play(ctx context.Context, itemID string) error {
	sess, err := s.Resolve(ctx)
	if err != nil {
		return err
	}

	if sess.NowPlaying != nil {
		if err := s.catalog.Stop(ctx, sess.SessionID); err != nil {
			s.logger.Warn("stop before play failed", "sessionID", sess.SessionID, "error", err)
		}
		select {
		case <-time.After(s.settle):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if err := s.catalog.Play(ctx, sess.SessionID, itemID); err != nil {
		s.logger.Error("play failed", "sessionID", sess.SessionID, "itemID", itemID, "error", err)
		return err
	}

	s.logger.Info("playback started", "device", sess.DeviceName, "itemID", itemID)
	return nil
}

// Stop halts playback on the target device
func (s *SessionService) Stop(ctx context.Context) error {
	sess, err := s.Resolve(ctx)
	if err != nil {
		return err
	}
	return s.catalog.Stop(ctx, sess.SessionID)
}

// Transport sends a transport command to the target device. Failures
// are logged and swallowed; the next status poll reconciles the UI.
func (s *SessionService) Transport(ctx context.Context, cmd domain.TransportCommand, value int64) {
	sess, err := s.Resolve(ctx)
	if err != nil {
		s.logger.Warn("transport command dropped, no session", "cmd", cmd, "error", err)
		return
	}
	if err := s.catalog.Command(ctx, sess.SessionID, cmd, value); err != nil {
		s.logger.Warn("transport command failed", "cmd", cmd, "sessionID", sess.SessionID, "error", err)
	}
}

// Status returns the target device's current player state, or nil
// when the device is idle.
func (s *SessionService) Status(ctx context.Context) (*domain.PlayerStatus, error) {
	sess, err := s.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	if sess.NowPlaying == nil {
		return nil, nil
	}

	np := sess.NowPlaying
	return &domain.PlayerStatus{
		SessionID:     sess.SessionID,
		ItemID:        np.ID,
		Title:         np.Name,
		SeriesName:    np.SeriesName,
		SeasonNum:     np.SeasonNum,
		EpisodeNum:    np.EpisodeNum,
		Quality:       QualityLabel(np.Width),
		ImageURL:      s.catalog.ImageURL(np.ID, np.ImageTag),
		IsPlaying:     !sess.IsPaused,
		PositionTicks: sess.PositionTicks,
		DurationTicks: np.RunTimeTicks,
	}, nil
}

// matchesTarget reports whether a session belongs to the configured
// device. Id match is exact; name match is a case-insensitive
// substring so "Living Room" finds "Living Room TV".
func matchesTarget(sess *domain.RemoteSession, target string) bool {
	if sess.DeviceID == target {
		return true
	}
	return strings.Contains(strings.ToLower(sess.DeviceName), strings.ToLower(target))
}

// QualityLabel classifies a stream by its reported width. Streams
// that do not report a width are labelled HD rather than SD.
func QualityLabel(width int) string {
	switch {
	case width >= 3000:
		return "4K"
	case width >= 1900:
		return "1080p"
	case width >= 1200:
		return "720p"
	case width > 0:
		return "SD"
	}
	return "HD"
}

// PercentToTicks converts a scrub position to an absolute seek
// target within the item's runtime.
func PercentToTicks(pct float64, durationTicks int64) int64 {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return int64(pct / 100 * float64(durationTicks))
}

// SkipTarget computes the absolute seek position for a relative skip
// of the given number of seconds, clamped to the item's bounds.
func SkipTarget(positionTicks, durationTicks int64, seconds int64) int64 {
	target := positionTicks + seconds*domain.TicksPerSecond
	if target < 0 {
		target = 0
	}
	if durationTicks > 0 && target > durationTicks {
		target = durationTicks
	}
	return target
}
