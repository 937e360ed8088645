package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/abhishek9621yadav/chatroom-app/internal/repository"
)

// LiveStats exposes the hub's in-memory counters. Values are
// point-in-time snapshots under concurrent churn.
type LiveStats interface {
	ActiveRooms() int
	ActiveConnections() int
}

// Stats is the operator-facing snapshot served by GET /api/stats.
type Stats struct {
	TotalUsers        int64 `json:"totalUsers"`
	TotalRooms        int64 `json:"totalRooms"`
	TotalMessages     int64 `json:"totalMessages"`
	ActiveRooms       int   `json:"activeRooms"`
	ActiveConnections int   `json:"activeConnections"`
}

// StatsService aggregates durable totals with live hub counters.
type StatsService struct {
	userRepo    repository.UserRepository
	roomRepo    repository.RoomRepository
	messageRepo repository.MessageRepository
	live        LiveStats
}

// NewStatsService creates a StatsService. live may be nil when the hub
// is not running (worker-only deployments).
func NewStatsService(userRepo repository.UserRepository, roomRepo repository.RoomRepository, messageRepo repository.MessageRepository, live LiveStats) *StatsService {
	if userRepo == nil || roomRepo == nil || messageRepo == nil {
		panic("repositories cannot be nil for StatsService")
	}
	return &StatsService{userRepo: userRepo, roomRepo: roomRepo, messageRepo: messageRepo, live: live}
}

// Snapshot returns current totals.
func (s *StatsService) Snapshot(ctx context.Context) (*Stats, error) {
	users, err := s.userRepo.Count(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to count users")
		return nil, ErrInternalServer
	}
	rooms, err := s.roomRepo.Count(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to count rooms")
		return nil, ErrInternalServer
	}
	messages, err := s.messageRepo.Count(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to count messages")
		return nil, ErrInternalServer
	}

	stats := &Stats{TotalUsers: users, TotalRooms: rooms, TotalMessages: messages}
	if s.live != nil {
		stats.ActiveRooms = s.live.ActiveRooms()
		stats.ActiveConnections = s.live.ActiveConnections()
	}
	return stats, nil
}
