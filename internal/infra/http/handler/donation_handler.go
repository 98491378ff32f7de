package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Anya-sl/cat-charity-fund/internal/domain"
	"github.com/Anya-sl/cat-charity-fund/internal/usecase"
	"github.com/rs/zerolog/log"
)

// DonationHandler expõe as operações de doação via HTTP
type DonationHandler struct {
	createDonationUC *usecase.CreateDonationUseCase
	listDonationsUC  *usecase.ListDonationsUseCase
}

func NewDonationHandler(
	createUC *usecase.CreateDonationUseCase,
	listUC *usecase.ListDonationsUseCase,
) *DonationHandler {
	return &DonationHandler{
		createDonationUC: createUC,
		listDonationsUC:  listUC,
	}
}

type CreateDonationRequest struct {
	FullAmount int64   `json:"full_amount"` // Valor em centavos
	Comment    *string `json:"comment"`
}

// Create registra a doação; a distribuição entre os projetos abertos
// acontece na mesma transação, dentro do usecase.
func (h *DonationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateDonationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Payload inválido")
		return
	}

	output, err := h.createDonationUC.Execute(r.Context(), usecase.CreateDonationInput{
		FullAmount: req.FullAmount,
		Comment:    req.Comment,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAmount) {
			respondError(w, http.StatusBadRequest, "Valor inválido")
			return
		}
		log.Error().Err(err).Msg("Erro interno ao processar doação")
		respondError(w, http.StatusInternalServerError, "Erro interno do servidor")
		return
	}

	respondJSON(w, http.StatusCreated, output)
}

func (h *DonationHandler) List(w http.ResponseWriter, r *http.Request) {
	outputs, err := h.listDonationsUC.Execute(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Erro interno ao listar doações")
		respondError(w, http.StatusInternalServerError, "Erro interno do servidor")
		return
	}
	respondJSON(w, http.StatusOK, outputs)
}
