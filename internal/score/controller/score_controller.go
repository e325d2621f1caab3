package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"ioiscore/internal/score/model"
	"ioiscore/internal/score/service"
	"ioiscore/pkg/utils/response"
)

// ScoreController handles the IOI scoring HTTP endpoints.
type ScoreController struct {
	scoreService *service.ScoreService
}

// NewScoreController creates a new ScoreController.
func NewScoreController(scoreService *service.ScoreService) *ScoreController {
	return &ScoreController{scoreService: scoreService}
}

// RegisterRoutes mounts the scoring API under the given router group.
func (h *ScoreController) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/problems/:id/config", h.ConfigureProblem)
	rg.GET("/problems/:id/config", h.GetProblemConfig)
	rg.POST("/submissions/:id/score", h.CalculateSubmissionScore)
	rg.GET("/submissions/:id", h.GetSubmissionDetail)
	rg.GET("/contests/:id/leaderboard", h.GetLeaderboard)
}

// ConfigureProblem stores a problem's scoring configuration.
func (h *ScoreController) ConfigureProblem(c *gin.Context) {
	problemID, ok := pathID(c)
	if !ok {
		return
	}
	var req ConfigureProblemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request parameters")
		return
	}
	cfg := model.ProblemConfig{
		ProblemID:        problemID,
		SubtaskEnabled:   req.SubtaskEnabled,
		FinalScoreMethod: req.FinalScoreMethod,
		FullScore:        req.FullScore,
		Subtasks:         req.Subtasks,
	}
	if err := h.scoreService.ConfigureProblem(c.Request.Context(), cfg); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, ConfigureProblemResponse{ProblemID: problemID})
}

// GetProblemConfig returns the stored or default configuration.
func (h *ScoreController) GetProblemConfig(c *gin.Context) {
	problemID, ok := pathID(c)
	if !ok {
		return
	}
	cfg, err := h.scoreService.GetProblemConfig(c.Request.Context(), problemID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, cfg)
}

// CalculateSubmissionScore recomputes one submission's score.
func (h *ScoreController) CalculateSubmissionScore(c *gin.Context) {
	submissionID, ok := pathID(c)
	if !ok {
		return
	}
	score, err := h.scoreService.CalculateSubmissionScore(c.Request.Context(), submissionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, score)
}

// GetSubmissionDetail returns a submission's full scoring view.
func (h *ScoreController) GetSubmissionDetail(c *gin.Context) {
	submissionID, ok := pathID(c)
	if !ok {
		return
	}
	includeCode := c.Query("include_code") == "true"
	detail, err := h.scoreService.GetSubmissionDetail(c.Request.Context(), submissionID, includeCode)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, detail)
}

// GetLeaderboard returns one page of a contest's leaderboard.
func (h *ScoreController) GetLeaderboard(c *gin.Context) {
	contestID, ok := pathID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "0"))

	board, err := h.scoreService.GetLeaderboard(c.Request.Context(), contestID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, LeaderboardResponse{
		ContestID:  board.ContestID,
		Problems:   board.Problems,
		Entries:    board.Entries,
		TotalCount: board.TotalCount,
		Page:       board.Page,
		PageSize:   board.PageSize,
	})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "Invalid id")
		return 0, false
	}
	return id, true
}
