package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jscott-dev/meetmebot/pkg/model"
	"github.com/jscott-dev/meetmebot/pkg/repository"
	"github.com/jscott-dev/meetmebot/pkg/usecase/portfolio"
	"github.com/m-mizutani/goerr/v2"
)

type chatRequest struct {
	Message string `json:"message"`
}

// handleChat accepts a guest message and replies with plain text. The chat
// use case never fails, so this handler has no error path past decoding.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, goerr.Wrap(err, "failed to decode chat request"), http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		handleError(w, goerr.New("message is required"), http.StatusBadRequest)
		return
	}

	reply := s.chatUC.HandleMessage(r.Context(), req.Message)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(reply)) //nolint:errcheck
}

type projectRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ImageURL    string   `json:"imageUrl"`
	DemoURL     string   `json:"demoUrl"`
	GitURL      string   `json:"gitUrl"`
	Skills      []string `json:"skills"`
	IsActive    bool     `json:"isActive"`
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	activeOnly, _ := strconv.ParseBool(r.URL.Query().Get("active"))
	skill := r.URL.Query().Get("skill")

	projects, err := s.portfolioUC.ListProjects(r.Context(), activeOnly, skill)
	if err != nil {
		handleError(w, err, http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, projects)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, goerr.Wrap(err, "failed to decode project request"), http.StatusBadRequest)
		return
	}

	project, err := s.portfolioUC.CreateProject(r.Context(), portfolio.CreateProjectInput{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		DemoURL:     req.DemoURL,
		GitURL:      req.GitURL,
		Skills:      req.Skills,
		IsActive:    req.IsActive,
	})
	if err != nil {
		if errors.Is(err, model.ErrInvalidProject) {
			handleError(w, err, http.StatusBadRequest)
			return
		}
		handleError(w, err, http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusCreated, project)
}

type projectPatchRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	ImageURL    *string  `json:"imageUrl"`
	DemoURL     *string  `json:"demoUrl"`
	GitURL      *string  `json:"gitUrl"`
	Skills      []string `json:"skills"`
	IsActive    *bool    `json:"isActive"`
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	id := model.ProjectID(chi.URLParam(r, "projectID"))

	var req projectPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, goerr.Wrap(err, "failed to decode project patch"), http.StatusBadRequest)
		return
	}

	project, err := s.portfolioUC.UpdateProject(r.Context(), id, portfolio.UpdateProjectInput{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		DemoURL:     req.DemoURL,
		GitURL:      req.GitURL,
		Skills:      req.Skills,
		IsActive:    req.IsActive,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			handleError(w, err, http.StatusNotFound)
			return
		}
		handleError(w, err, http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, project)
}

type visitRequest struct {
	Email string `json:"email"`
}

func (s *Server) handleRecordVisit(w http.ResponseWriter, r *http.Request) {
	var req visitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, goerr.Wrap(err, "failed to decode visit request"), http.StatusBadRequest)
		return
	}

	visit, err := s.portfolioUC.RecordVisit(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, model.ErrInvalidVisit) {
			handleError(w, err, http.StatusBadRequest)
			return
		}
		handleError(w, err, http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusCreated, visit)
}

func (s *Server) handleListVisits(w http.ResponseWriter, r *http.Request) {
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	visits, err := s.portfolioUC.ListVisits(r.Context(), offset, limit)
	if err != nil {
		handleError(w, err, http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, visits)
}
