package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/ramadanhub/backend/internal/repository"
	"github.com/ramadanhub/backend/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AdminHandler struct {
	db          *pgxpool.Pool
	authSvc     *service.AuthService
	generations *repository.GenerationRepository
}

func NewAdminHandler(db *pgxpool.Pool, authSvc *service.AuthService, generations *repository.GenerationRepository) *AdminHandler {
	return &AdminHandler{db: db, authSvc: authSvc, generations: generations}
}

// GetStats returns system-wide metrics.
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	// Simple count queries
	var usersCount, subCount int

	if err := h.db.QueryRow(r.Context(), "SELECT COUNT(*) FROM users").Scan(&usersCount); err != nil {
		log.Printf("Failed to count users: %v", err)
	}
	if err := h.db.QueryRow(r.Context(), "SELECT COUNT(*) FROM subscriptions WHERE status = 'active'").Scan(&subCount); err != nil {
		log.Printf("Failed to count subscriptions: %v", err)
	}

	generationsToday, err := h.generations.CountSince(r.Context(), time.Now().Add(-24*time.Hour))
	if err != nil {
		log.Printf("Failed to count generations: %v", err)
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"users":            usersCount,
		"subscriptions":    subCount,
		"generationsToday": generationsToday,
	})
}

// ListUsers returns all users.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.authSvc.ListUsers(r.Context())
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, users)
}
