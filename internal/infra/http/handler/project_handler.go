package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Anya-sl/cat-charity-fund/internal/domain"
	"github.com/Anya-sl/cat-charity-fund/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// ProjectHandler expõe as operações de projeto via HTTP
type ProjectHandler struct {
	createProjectUC *usecase.CreateProjectUseCase
	listProjectsUC  *usecase.ListProjectsUseCase
	updateProjectUC *usecase.UpdateProjectUseCase
	deleteProjectUC *usecase.DeleteProjectUseCase
}

func NewProjectHandler(
	createUC *usecase.CreateProjectUseCase,
	listUC *usecase.ListProjectsUseCase,
	updateUC *usecase.UpdateProjectUseCase,
	deleteUC *usecase.DeleteProjectUseCase,
) *ProjectHandler {
	return &ProjectHandler{
		createProjectUC: createUC,
		listProjectsUC:  listUC,
		updateProjectUC: updateUC,
		deleteProjectUC: deleteUC,
	}
}

// DTOs (Data Transfer Objects) para Request/Response
// Usamos tags JSON para mapear snake_case (padrão de APIs)
type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	FullAmount  int64  `json:"full_amount"` // Valor em centavos
}

type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	FullAmount  *int64  `json:"full_amount"`
}

// Create processa a criação do projeto (e a alocação imediata das doações
// abertas, dentro do usecase).
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Payload inválido")
		return
	}
	if req.Name == "" || req.Description == "" {
		respondError(w, http.StatusBadRequest, "Nome e descrição são obrigatórios")
		return
	}

	output, err := h.createProjectUC.Execute(r.Context(), usecase.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		FullAmount:  req.FullAmount,
	})
	if err != nil {
		respondProjectError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, output)
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	outputs, err := h.listProjectsUC.Execute(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Erro interno ao listar projetos")
		respondError(w, http.StatusInternalServerError, "Erro interno do servidor")
		return
	}
	respondJSON(w, http.StatusOK, outputs)
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseID(w, r)
	if !ok {
		return
	}

	var req UpdateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Payload inválido")
		return
	}

	output, err := h.updateProjectUC.Execute(r.Context(), usecase.UpdateProjectInput{
		ProjectID:   projectID,
		Name:        req.Name,
		Description: req.Description,
		FullAmount:  req.FullAmount,
	})
	if err != nil {
		respondProjectError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, output)
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.deleteProjectUC.Execute(r.Context(), projectID); err != nil {
		respondProjectError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "ID inválido")
		return 0, false
	}
	return id, true
}

// Mapeamento de Erros de Domínio -> HTTP Status Code
func respondProjectError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrProjectNotFound):
		respondError(w, http.StatusNotFound, "Projeto não encontrado")
	case errors.Is(err, domain.ErrNameTaken):
		respondError(w, http.StatusBadRequest, "Já existe projeto com esse nome")
	case errors.Is(err, domain.ErrProjectClosed):
		respondError(w, http.StatusBadRequest, "Projeto fechado não pode ser editado")
	case errors.Is(err, domain.ErrProjectInvested):
		respondError(w, http.StatusBadRequest, "Projeto com aporte não pode ser removido")
	case errors.Is(err, domain.ErrFullAmountTooLow):
		respondError(w, http.StatusUnprocessableEntity, "Valor alvo não pode ser menor que o já investido")
	case errors.Is(err, domain.ErrInvalidAmount):
		respondError(w, http.StatusBadRequest, "Valor inválido")
	default:
		// Erro interno (banco caiu, bug, etc)
		log.Error().Err(err).Msg("Erro interno ao processar projeto")
		respondError(w, http.StatusInternalServerError, "Erro interno do servidor")
	}
}

// Helpers para resposta JSON
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("Falha ao codificar resposta JSON")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
