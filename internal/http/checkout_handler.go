package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/artisanmarket/storefront/internal/auth"
	"github.com/artisanmarket/storefront/internal/checkout"
	"github.com/artisanmarket/storefront/internal/events"
)

type CheckoutHandler struct {
	orchestrator *checkout.Orchestrator
}

func NewCheckoutHandler(orchestrator *checkout.Orchestrator) *CheckoutHandler {
	return &CheckoutHandler{orchestrator: orchestrator}
}

// ValidateStep checks one wizard step against the form entered so far,
// so the client can gate its own step advancement.
func (h *CheckoutHandler) ValidateStep(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Step string        `json:"step"`
		Form checkout.Form `json:"form"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	step, known := checkout.ParseStep(body.Step)
	if !known {
		writeError(w, http.StatusBadRequest, "unknown step")
		return
	}

	wiz := checkout.NewWizardAt(step)
	wiz.SetForm(body.Form)

	ok, missing := wiz.Next()
	if missing == nil {
		missing = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":       ok,
		"missing":  missing,
		"nextStep": wiz.Step().String(),
	})
}

// SubmitOrder drives the full wizard over the posted form and performs
// the terminal submit: order snapshot, event publish, cart clear.
func (h *CheckoutHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var form checkout.Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	wiz := checkout.NewWizard()
	wiz.SetForm(form)
	for wiz.Step() != checkout.StepPayment {
		if ok, missing := wiz.Next(); !ok {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":   "missing required fields",
				"step":    wiz.Step().String(),
				"missing": missing,
			})
			return
		}
	}

	metadata := publishMetadataFromRequest(r)

	ord, err := h.orchestrator.SubmitOrder(r.Context(), claims.Subject, wiz, metadata)
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			writeError(w, http.StatusConflict, "cart is empty")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to place order")
		return
	}

	writeJSON(w, http.StatusCreated, ord)
}

// publishMetadataFromRequest propagates correlation headers into the
// published event, generating a correlation id when absent.
func publishMetadataFromRequest(r *http.Request) events.PublishMetadata {
	metadata := events.PublishMetadata{
		CorrelationID: r.Header.Get("X-Correlation-Id"),
		CausationID:   r.Header.Get("X-Causation-Id"),
	}
	if metadata.CorrelationID == "" {
		metadata.CorrelationID = uuid.NewString()
	}
	return metadata
}
