package api

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type runSummary struct {
	RunKey     string `json:"run_key"`
	ModelName  string `json:"model_name"`
	ScenarioID string `json:"scenario_id"`
	Status     string `json:"status"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time,omitempty"`
}

func (s *Server) handleListRuns(c *gin.Context) {
	if s == nil || s.runs == nil {
		respondError(c, http.StatusInternalServerError, errors.New("runs store not configured"))
		return
	}

	states, err := s.runs.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	model := strings.TrimSpace(c.Query("model"))
	status := strings.TrimSpace(c.Query("status"))

	out := make([]runSummary, 0, len(states))
	for _, st := range states {
		if model != "" && st.ModelName != model {
			continue
		}
		if status != "" && st.Status != status {
			continue
		}
		out = append(out, runSummary{
			RunKey:     st.RunKey,
			ModelName:  st.ModelName,
			ScenarioID: st.ScenarioID,
			Status:     st.Status,
			StartTime:  st.StartTime,
			EndTime:    st.EndTime,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime > out[j].StartTime })

	c.JSON(http.StatusOK, out)
}

func (s *Server) handleGetRun(c *gin.Context) {
	if s == nil || s.runs == nil {
		respondError(c, http.StatusInternalServerError, errors.New("runs store not configured"))
		return
	}

	key := strings.TrimSpace(c.Param("key"))
	if key == "" {
		respondError(c, http.StatusBadRequest, errors.New("run key is required"))
		return
	}

	st, err := s.runs.Load(key)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	if st == nil {
		respondError(c, http.StatusNotFound, errors.New("run not found"))
		return
	}

	c.JSON(http.StatusOK, st)
}

func (s *Server) handleGetLeaderboard(c *gin.Context) {
	if s == nil || s.lbStore == nil {
		respondError(c, http.StatusInternalServerError, errors.New("leaderboard store not configured"))
		return
	}

	jurisdiction := strings.TrimSpace(c.Query("jurisdiction"))
	if jurisdiction == "" {
		respondError(c, http.StatusBadRequest, errors.New("jurisdiction is required"))
		return
	}

	limit := 20
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(c, http.StatusBadRequest, errors.New("invalid limit"))
			return
		}
		if n > 100 {
			n = 100
		}
		limit = n
	}

	entries, err := s.lbStore.Top(c.Request.Context(), jurisdiction, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

func (s *Server) handleGetModelHistory(c *gin.Context) {
	if s == nil || s.lbStore == nil {
		respondError(c, http.StatusInternalServerError, errors.New("leaderboard store not configured"))
		return
	}

	model := strings.TrimSpace(c.Query("model"))
	jurisdiction := strings.TrimSpace(c.Query("jurisdiction"))
	if model == "" || jurisdiction == "" {
		respondError(c, http.StatusBadRequest, errors.New("model and jurisdiction are required"))
		return
	}

	entries, err := s.lbStore.ModelHistory(c.Request.Context(), model, jurisdiction)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}
