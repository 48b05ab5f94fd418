package controller

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"gis_quiz_backend/internal/service"
	"gis_quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	Service *service.QuizService

	maxUploadBytes int64
}

func NewQuizController(svc *service.QuizService, maxUploadBytes int64) *QuizController {
	return &QuizController{Service: svc, maxUploadBytes: maxUploadBytes}
}

// @Summary Upload a question bank file
// @Description Parses a delimited-text or JSON question file into a pool
// @Tags quiz
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "question bank (.txt or .json)"
// @Param format formData string false "declared format: txt or json"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /quiz/uploads [post]
func (c *QuizController) Upload(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "missing question file")
		return
	}
	if c.maxUploadBytes > 0 && fileHeader.Size > c.maxUploadBytes {
		util.BadRequest(ctx, fmt.Sprintf("file exceeds %d bytes", c.maxUploadBytes))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		util.BadRequest(ctx, util.ErrUnreadableFile.Error())
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		util.BadRequest(ctx, util.ErrUnreadableFile.Error())
		return
	}

	info, err := c.Service.Upload(data, ctx.PostForm("format"), fileHeader.Filename)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrUnreadableFile), errors.Is(err, util.ErrUnsupportedFormat):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, info)
}

// @Summary Get pool metadata
// @Description Pool size and draw bounds for the count selector
// @Tags quiz
// @Produce json
// @Param id path string true "upload id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /quiz/uploads/{id} [get]
func (c *QuizController) GetPool(ctx *gin.Context) {
	info, err := c.Service.Pool(ctx.Param("id"))
	if err != nil {
		util.NotFound(ctx, err.Error())
		return
	}
	util.Success(ctx, info)
}

type drawRequest struct {
	UploadID string `json:"uploadId" binding:"required"`
	Count    int    `json:"count"`
}

// @Summary Draw a quiz session
// @Description Selects count random questions from the pool; replaces nothing server-side, the client keeps the session id it wants
// @Tags quiz
// @Accept json
// @Produce json
// @Param body body drawRequest true "upload id and question count"
// @Success 201 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /quiz/sessions [post]
func (c *QuizController) CreateSession(ctx *gin.Context) {
	var req drawRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	session, err := c.Service.Draw(req.UploadID, req.Count)
	if err != nil {
		c.writeDrawError(ctx, err)
		return
	}
	util.Created(ctx, session)
}

// @Summary Get a drawn session
// @Tags quiz
// @Produce json
// @Param id path string true "session id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /quiz/sessions/{id} [get]
func (c *QuizController) GetSession(ctx *gin.Context) {
	session, err := c.Service.Session(ctx.Param("id"))
	if err != nil {
		util.NotFound(ctx, err.Error())
		return
	}
	util.Success(ctx, session)
}

type submitRequest struct {
	// Answers are raw strings aligned with the session's question order.
	Answers []string `json:"answers" binding:"required"`
}

// @Summary Submit answers for grading
// @Description Grades the ordered answers, appends the attempt to the history log and returns score, per-item results and a transcript
// @Tags quiz
// @Accept json
// @Produce json
// @Param id path string true "session id"
// @Param body body submitRequest true "ordered raw answers"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /quiz/sessions/{id}/submit [post]
func (c *QuizController) SubmitSession(ctx *gin.Context) {
	var req submitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Service.Submit(ctx.Param("id"), req.Answers)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSessionNotFound):
			util.NotFound(ctx, err.Error())
		case errors.Is(err, util.ErrAnswerCountMismatch):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, result)
}

type retryWorstRequest struct {
	UploadID string `json:"uploadId" binding:"required"`
}

// @Summary Draw a retry session from the most-missed questions
// @Tags quiz
// @Accept json
// @Produce json
// @Param body body retryWorstRequest true "upload id"
// @Success 201 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /quiz/sessions/retry-worst [post]
func (c *QuizController) RetryWorst(ctx *gin.Context) {
	var req retryWorstRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	session, err := c.Service.RetryWorst(req.UploadID)
	if err != nil {
		c.writeDrawError(ctx, err)
		return
	}
	util.Created(ctx, session)
}

// @Summary Download the last attempt's transcript
// @Tags quiz
// @Produce plain
// @Param id path string true "session id"
// @Success 200 {string} string "plain-text transcript"
// @Failure 404 {object} util.Response
// @Router /quiz/sessions/{id}/transcript [get]
func (c *QuizController) DownloadTranscript(ctx *gin.Context) {
	transcript, err := c.Service.Transcript(ctx.Param("id"))
	if err != nil {
		util.NotFound(ctx, err.Error())
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="quiz_result.txt"`)
	ctx.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(transcript))
}

func (c *QuizController) writeDrawError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrPoolNotFound):
		util.NotFound(ctx, err.Error())
	case errors.Is(err, util.ErrInsufficientPool):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrHistoryCorrupt):
		util.Error(ctx, http.StatusInternalServerError, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
