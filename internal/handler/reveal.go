package handler

import (
	"net/http"

	"github.com/packworks/packworks/internal/collection"
	"github.com/packworks/packworks/internal/domain"
	"github.com/packworks/packworks/internal/logger"
	"github.com/packworks/packworks/internal/reveal"
	"github.com/packworks/packworks/internal/shop"
)

// RevealHandler drives the pack-opening flow: purchase, card-by-card
// reveal, and the final commit of delivered cards into the collection.
type RevealHandler struct {
	shop       shop.Service
	collection collection.Service
	store      *reveal.Store
}

// NewRevealHandler creates a new RevealHandler
func NewRevealHandler(shopSvc shop.Service, collectionSvc collection.Service, store *reveal.Store) *RevealHandler {
	return &RevealHandler{
		shop:       shopSvc,
		collection: collectionSvc,
		store:      store,
	}
}

type OpenPackRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	PackID string `json:"pack_id" validate:"required"`
}

// OpenPackResponse returns the purchase receipt and the session handle the
// client uses for the reveal endpoints.
type OpenPackResponse struct {
	SessionID   string             `json:"session_id"`
	State       reveal.State       `json:"state"`
	CardCount   int                `json:"card_count"`
	Transaction domain.Transaction `json:"transaction"`
}

// RevealStateResponse reports the session after a reveal step. Cards is
// populated only once the session completes.
type RevealStateResponse struct {
	SessionID string        `json:"session_id"`
	State     reveal.State  `json:"state"`
	Current   *domain.Card  `json:"current,omitempty"`
	Position  int           `json:"position"`
	Total     int           `json:"total"`
	Cards     []domain.Card `json:"cards,omitempty"`
}

// HandleOpenPack purchases a pack and opens a reveal session over the
// generated cards. Cards enter the collection only when the reveal
// completes or the session is abandoned.
func (h *RevealHandler) HandleOpenPack(w http.ResponseWriter, r *http.Request) {
	var req OpenPackRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Open pack"); err != nil {
		return
	}

	result, err := h.shop.Purchase(r.Context(), req.UserID, req.PackID)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to open pack", "error", err)
		statusCode, userMsg := mapServiceErrorToUserMessage(err)
		respondError(w, statusCode, userMsg)
		return
	}

	sess := reveal.NewSession(req.UserID, req.PackID, result.Cards)
	h.store.Put(sess)

	respondJSON(w, http.StatusCreated, OpenPackResponse{
		SessionID:   sess.ID(),
		State:       sess.State(),
		CardCount:   len(result.Cards),
		Transaction: result.Transaction,
	})
}

// HandleStartReveal flips a session from closed to revealing at the first card
func (h *RevealHandler) HandleStartReveal(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSession(w, r)
	if !ok {
		return
	}
	h.step(w, r, sess, sess.Start)
}

// HandleNextCard advances the reveal by one card
func (h *RevealHandler) HandleNextCard(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSession(w, r)
	if !ok {
		return
	}
	h.step(w, r, sess, sess.Next)
}

// HandleSkipToRare jumps ahead to the next rare-or-better card
func (h *RevealHandler) HandleSkipToRare(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSession(w, r)
	if !ok {
		return
	}
	h.step(w, r, sess, sess.SkipToRare)
}

// HandleSkipAll ends the reveal immediately, delivering every card
func (h *RevealHandler) HandleSkipAll(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSession(w, r)
	if !ok {
		return
	}
	h.step(w, r, sess, sess.SkipAll)
}

// HandleRevealState reports the session without advancing it
func (h *RevealHandler) HandleRevealState(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSession(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, h.snapshot(sess))
}

func (h *RevealHandler) getSession(w http.ResponseWriter, r *http.Request) (*reveal.Session, bool) {
	sessionID, ok := GetQueryParam(r, w, "id")
	if !ok {
		return nil, false
	}
	sess, found := h.store.Get(sessionID)
	if !found {
		respondError(w, http.StatusNotFound, ErrMsgSessionNotFound)
		return nil, false
	}
	return sess, true
}

// step applies one transition and, when the session completes, commits the
// delivered cards to the collection and drops the session from the store.
func (h *RevealHandler) step(w http.ResponseWriter, r *http.Request, sess *reveal.Session, transition func() error) {
	log := logger.FromContext(r.Context())

	if err := transition(); err != nil {
		log.Warn("Rejected reveal transition", "session_id", sess.ID(), "error", err)
		statusCode, userMsg := mapServiceErrorToUserMessage(err)
		respondError(w, statusCode, userMsg)
		return
	}

	if sess.State() == reveal.StateComplete {
		// A failed commit keeps the session stored; the eviction hook
		// retries it and commits are idempotent.
		if err := h.collection.Commit(r.Context(), sess.UserID(), sess.ID(), sess.Delivered()); err != nil {
			log.Error("Failed to commit revealed cards", "session_id", sess.ID(), "error", err)
			statusCode, userMsg := mapServiceErrorToUserMessage(err)
			respondError(w, statusCode, userMsg)
			return
		}
		h.store.Remove(sess.ID())
	}

	respondJSON(w, http.StatusOK, h.snapshot(sess))
}

func (h *RevealHandler) snapshot(sess *reveal.Session) RevealStateResponse {
	position, total := sess.Progress()
	resp := RevealStateResponse{
		SessionID: sess.ID(),
		State:     sess.State(),
		Position:  position,
		Total:     total,
	}
	if card, ok := sess.Current(); ok {
		resp.Current = &card
	}
	if sess.State() == reveal.StateComplete {
		resp.Cards = sess.Delivered()
	}
	return resp
}
