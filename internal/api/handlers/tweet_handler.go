package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/brazzinioc/twitter-api/internal/auth"
	"github.com/brazzinioc/twitter-api/internal/services"
)

// TweetHandler handles HTTP requests for tweet management.
type TweetHandler struct {
	service services.TweetServiceProvider
}

// NewTweetHandler creates a new TweetHandler.
func NewTweetHandler(service services.TweetServiceProvider) *TweetHandler {
	return &TweetHandler{service: service}
}

// TweetPayload defines the structure for create and update requests. The
// author is always taken from the token claims, never from the body.
type TweetPayload struct {
	Content string `json:"content"`
}

// Create handles publishing a new tweet by the authenticated user.
func (h *TweetHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	var payload TweetPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	tweet, err := h.service.CreateTweet(payload.Content, claims.UserID)
	if err != nil {
		log.Warn().Err(err).Str("author_id", claims.UserID).Msg("Failed to create tweet")
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, tweet)
}

// List handles retrieving all active tweets.
func (h *TweetHandler) List(w http.ResponseWriter, r *http.Request) {
	tweets, err := h.service.ListTweets()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list tweets")
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tweets)
}

// Get handles retrieving a tweet by its ID.
func (h *TweetHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	tweet, err := h.service.GetTweetByID(id)
	if err != nil {
		log.Warn().Err(err).Str("tweet_id", id).Msg("Failed to get tweet by ID")
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tweet)
}

// Update handles editing a tweet's content. Only the author may edit it.
func (h *TweetHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	var payload TweetPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	tweet, err := h.service.UpdateTweet(id, payload.Content, claims.UserID)
	if err != nil {
		log.Warn().Err(err).Str("tweet_id", id).Str("actor_id", claims.UserID).Msg("Failed to update tweet")
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tweet)
}

// Delete handles soft-deleting a tweet. Only the author may delete it.
func (h *TweetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	tweet, err := h.service.DeleteTweet(id, claims.UserID)
	if err != nil {
		log.Warn().Err(err).Str("tweet_id", id).Str("actor_id", claims.UserID).Msg("Failed to delete tweet")
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tweet)
}
