package main

import (
	"github.com/hibiken/asynq"

	readstateJob "confession-backend/internal/domains/readstate/job"
	emailjob "confession-backend/internal/infrastructure/email/job"
	"confession-backend/internal/shared"
	"confession-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	magicLinkEmail *emailjob.MagicLinkEmailHandler
	drainInbox     *readstateJob.DrainInboxHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		magicLinkEmail: emailjob.NewMagicLinkEmailHandler(c.Email),
		drainInbox:     readstateJob.NewDrainInboxHandler(c.ReadStateReconciler),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	// Email tasks
	mux.HandleFunc(shared.TypeSendMagicLinkEmail, h.magicLinkEmail.ProcessTask)

	// Read state
	mux.HandleFunc(shared.TypeDrainInbox, h.drainInbox.ProcessTask)
}
