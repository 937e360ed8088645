// Package worker runs the asynq consumer for background tasks.
package worker

import (
	"context"
	"errors"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/abhishek9621yadav/chatroom-app/internal/repository"
	"github.com/abhishek9621yadav/chatroom-app/internal/tasks"
)

// Server wraps the asynq worker server and its handler wiring.
type Server struct {
	server       *asynq.Server
	log          *logrus.Entry
	roomRepo     repository.RoomRepository
	presenceRepo repository.PresenceRepository
	userRepo     repository.UserRepository
}

// NewServer creates the worker server.
func NewServer(redisOpt asynq.RedisClientOpt, roomRepo repository.RoomRepository, presenceRepo repository.PresenceRepository, userRepo repository.UserRepository) *Server {
	logEntry := logrus.WithField("component", "worker_server")

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				retryCount, _ := asynq.GetRetryCount(ctx)
				maxRetry, _ := asynq.GetMaxRetry(ctx)
				logEntry.WithFields(logrus.Fields{
					"task_type": task.Type(),
					"retries":   retryCount,
					"max_retry": maxRetry,
				}).Errorf("Task failed: %v", err)
			}),
		},
	)

	return &Server{
		server:       server,
		log:          logEntry,
		roomRepo:     roomRepo,
		presenceRepo: presenceRepo,
		userRepo:     userRepo,
	}
}

// Start runs the worker server. It blocks; call it in its own
// goroutine.
func (s *Server) Start() {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeRoomActivity, NewRoomActivityHandler(s.roomRepo).ProcessTask)
	mux.HandleFunc(tasks.TypePresenceSweep, NewPresenceSweepHandler(s.presenceRepo, s.userRepo).ProcessTask)

	s.log.Info("Worker server starting...")
	if err := s.server.Run(mux); err != nil {
		if !errors.Is(err, asynq.ErrServerClosed) {
			s.log.Fatalf("Could not run worker server: %v", err)
		}
		s.log.Info("Worker server stopped.")
	}
}

// Shutdown gracefully stops the worker server.
func (s *Server) Shutdown() {
	s.log.Info("Shutting down worker server...")
	s.server.Shutdown()
	s.log.Info("Worker server shut down complete.")
}
