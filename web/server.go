package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"jira-sprints/calendar"
	"jira-sprints/jira"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Server exposes the Jira client over HTTP
type Server struct {
	Router *chi.Mux
	client *jira.Client
	logger zerolog.Logger
}

// NewServer creates a new web server
func NewServer(client *jira.Client, logger zerolog.Logger) *Server {
	s := &Server{client: client, logger: logger}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()

	// Request logging middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(2 * time.Minute)) // seeding a year issues ~52 calls

	// Health check endpoint
	r.Get("/health", s.healthCheck)

	// API endpoints
	r.Route("/api", func(r chi.Router) {
		r.Get("/boards", s.listBoards)
		r.Get("/boards/{boardID}/sprints", s.listSprints)
		r.Post("/boards/{boardID}/sprints/year", s.createSprintsForYear)
		r.Get("/sprints/{sprintID}", s.getSprint)
		r.Post("/sprints", s.createSprint)
		r.Post("/issues", s.createIssue)
		r.Get("/weeks/{year}", s.weeks)
	})

	s.Router = r
}

// healthCheck returns server health status
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "jira-sprints-api",
	})
}

func (s *Server) listBoards(w http.ResponseWriter, r *http.Request) {
	boards, err := s.client.ListBoards(r.Context())
	if err != nil {
		s.upstreamError(w, "listing boards", err)
		return
	}
	writeJSON(w, http.StatusOK, boards)
}

func (s *Server) listSprints(w http.ResponseWriter, r *http.Request) {
	boardID, ok := intParam(w, r, "boardID")
	if !ok {
		return
	}
	sprints, err := s.client.ListSprints(r.Context(), boardID)
	if err != nil {
		s.upstreamError(w, "listing sprints", err)
		return
	}
	writeJSON(w, http.StatusOK, sprints)
}

func (s *Server) getSprint(w http.ResponseWriter, r *http.Request) {
	sprintID, ok := intParam(w, r, "sprintID")
	if !ok {
		return
	}
	sprint, err := s.client.GetSprint(r.Context(), sprintID)
	if err != nil {
		s.upstreamError(w, "fetching sprint", err)
		return
	}
	writeJSON(w, http.StatusOK, sprint)
}

type createSprintBody struct {
	Name          string    `json:"name"`
	StartDate     time.Time `json:"startDate"`
	EndDate       time.Time `json:"endDate"`
	OriginBoardID int       `json:"originBoardId"`
	Goal          *string   `json:"goal"`
}

func (s *Server) createSprint(w http.ResponseWriter, r *http.Request) {
	var body createSprintBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid sprint payload", http.StatusBadRequest)
		return
	}
	if body.Name == "" || body.OriginBoardID == 0 || !body.EndDate.After(body.StartDate) {
		http.Error(w, "name, originBoardId and a startDate before endDate are required", http.StatusBadRequest)
		return
	}

	// An explicit empty goal is forwarded; a missing one is not.
	req := s.client.NewSprintRequest(body.Name, body.StartDate, body.EndDate, body.OriginBoardID, "")
	req.Goal = body.Goal
	sprint, err := s.client.CreateSprint(r.Context(), req)
	if err != nil {
		s.upstreamError(w, "creating sprint", err)
		return
	}
	writeJSON(w, http.StatusCreated, sprint)
}

type yearBody struct {
	Year      int  `json:"year"`
	FirstWeek int  `json:"firstWeek"`
	NumWeeks  int  `json:"numWeeks"`
	DryRun    bool `json:"dryRun"`
}

func (s *Server) createSprintsForYear(w http.ResponseWriter, r *http.Request) {
	boardID, ok := intParam(w, r, "boardID")
	if !ok {
		return
	}
	var body yearBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid payload", http.StatusBadRequest)
		return
	}
	if body.Year < 1 {
		http.Error(w, "year must be positive", http.StatusBadRequest)
		return
	}
	if body.FirstWeek == 0 {
		body.FirstWeek = 1
	}

	plan, err := s.client.PlanSprintsForYear(boardID, body.Year, body.FirstWeek, body.NumWeeks)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if body.DryRun {
		writeJSON(w, http.StatusOK, map[string]interface{}{"planned": plan})
		return
	}

	created, err := s.client.CreateSprintsForYear(r.Context(), boardID, body.Year, body.FirstWeek, body.NumWeeks)
	if err != nil {
		s.logger.Error().Err(err).Int("created", len(created)).Msg("seeding sprints stopped")
		writeJSON(w, http.StatusBadGateway, map[string]interface{}{
			"error":   err.Error(),
			"created": created,
		})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"created": created,
		"stats":   map[string]int{"sprints": len(created)},
	})
}

type createIssueBody struct {
	ProjectKey string `json:"projectKey"`
	Summary    string `json:"summary"`
	DueDate    string `json:"dueDate"`
}

func (s *Server) createIssue(w http.ResponseWriter, r *http.Request) {
	var body createIssueBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid issue payload", http.StatusBadRequest)
		return
	}
	due, err := time.Parse(jira.DateLayout, body.DueDate)
	if err != nil || body.ProjectKey == "" || body.Summary == "" {
		http.Error(w, "projectKey, summary and dueDate (YYYY-MM-DD) are required", http.StatusBadRequest)
		return
	}

	issue, err := s.client.CreateIssue(r.Context(), body.ProjectKey, body.Summary, due)
	if err != nil {
		s.upstreamError(w, "creating issue", err)
		return
	}
	writeJSON(w, http.StatusCreated, issue)
}

func (s *Server) weeks(w http.ResponseWriter, r *http.Request) {
	year, ok := intParam(w, r, "year")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"year":  year,
		"weeks": calendar.WeeksInYear(year),
	})
}

// upstreamError relays the service's status when it answered, 502 otherwise.
func (s *Server) upstreamError(w http.ResponseWriter, what string, err error) {
	s.logger.Error().Err(err).Msg(what)
	if apiErr, ok := jira.AsAPIError(err); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(apiErr.StatusCode)
		w.Write(apiErr.Body)
		return
	}
	http.Error(w, "Error "+what, http.StatusBadGateway)
}

func intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		http.Error(w, "Invalid "+name, http.StatusBadRequest)
		return 0, false
	}
	return v, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Start starts the web server
func (s *Server) Start(addr string) error {
	s.logger.Info().Str("addr", addr).Msg("starting Jira sprints API server")
	s.logger.Info().Msg("GET  /health, /api/boards, /api/boards/{boardID}/sprints, /api/sprints/{sprintID}, /api/weeks/{year}")
	s.logger.Info().Msg("POST /api/sprints, /api/boards/{boardID}/sprints/year, /api/issues")

	return http.ListenAndServe(addr, s.Router)
}
