package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campuswell/psychtool/internal/model"
)

// pathID parses a numeric path parameter; a non-numeric id can never
// reference a row, so it reads as not found.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return 0, false
	}
	return id, true
}

// listTests returns all tests.
func (s *Server) listTests(c *gin.Context) {
	tests, err := s.tests.List(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": tests})
}

// getTest returns one test by id.
func (s *Server) getTest(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	t, err := s.tests.Get(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// saveLogoUpload stores an optional multipart logo and returns its path.
func (s *Server) saveLogoUpload(c *gin.Context) (*string, bool) {
	fh, err := c.FormFile("logo")
	if err != nil {
		return nil, true // no upload
	}
	f, err := fh.Open()
	if err != nil {
		s.writeError(c, err)
		return nil, false
	}
	defer f.Close()

	rel, err := s.media.SaveLogo(fh.Filename, f)
	if err != nil {
		s.writeError(c, err)
		return nil, false
	}
	return &rel, true
}

// createTest stores a new test from a multipart form. The interpretation
// table is validated before anything lands.
func (s *Server) createTest(c *gin.Context) {
	name := c.PostForm("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing test name"})
		return
	}

	var ref map[int16]string
	if err := json.Unmarshal([]byte(c.PostForm("points_reference")), &ref); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid points reference"})
		return
	}
	var interp map[string]string
	if err := json.Unmarshal([]byte(c.PostForm("points_interpretation")), &interp); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid points interpretation"})
		return
	}

	nt := model.NewPsychTest{
		Name:                 name,
		PointsReference:      ref,
		PointsInterpretation: interp,
	}
	if v, ok := c.GetPostForm("description"); ok {
		nt.Description = &v
	}
	if v, ok := c.GetPostForm("instructions"); ok {
		nt.Instructions = &v
	}

	logo, ok := s.saveLogoUpload(c)
	if !ok {
		return
	}
	nt.Logo = logo

	t, err := s.tests.Create(c.Request.Context(), nt)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// updateTest applies a partial multipart update; absent fields keep their
// stored values.
func (s *Server) updateTest(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var upd model.UpdatePsychTest
	if v, ok := c.GetPostForm("name"); ok {
		upd.Name = &v
	}
	if v, ok := c.GetPostForm("description"); ok {
		upd.Description = &v
	}
	if v, ok := c.GetPostForm("instructions"); ok {
		upd.Instructions = &v
	}
	if v, ok := c.GetPostForm("points_reference"); ok {
		if err := json.Unmarshal([]byte(v), &upd.PointsReference); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid points reference"})
			return
		}
	}
	if v, ok := c.GetPostForm("points_interpretation"); ok {
		if err := json.Unmarshal([]byte(v), &upd.PointsInterpretation); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid points interpretation"})
			return
		}
	}

	logo, ok := s.saveLogoUpload(c)
	if !ok {
		return
	}
	upd.Logo = logo

	t, err := s.tests.Update(c.Request.Context(), id, upd)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

type addQuestionsRequest struct {
	Items []struct {
		Text string `json:"text"`
	} `json:"items" binding:"required,min=1,dive"`
}

// addQuestions appends a batch of questions to a test.
func (s *Server) addQuestions(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req addQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing question items"})
		return
	}
	texts := make([]string, 0, len(req.Items))
	for _, it := range req.Items {
		if it.Text == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "empty question text"})
			return
		}
		texts = append(texts, it.Text)
	}

	qs, err := s.tests.AddQuestions(c.Request.Context(), id, texts)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": qs})
}

// listQuestions returns a test's questions.
func (s *Server) listQuestions(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	qs, err := s.tests.ListQuestions(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": qs})
}

// deleteQuestion removes one question of a test.
func (s *Server) deleteQuestion(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	qid, ok := pathID(c, "qid")
	if !ok {
		return
	}
	if err := s.tests.DeleteQuestion(c.Request.Context(), id, qid); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type evaluateRequest struct {
	Score *int `json:"score" binding:"required"`
}

// noMatchResult is returned when the score falls outside every interpreted
// range; a normal response, not an error.
const noMatchResult = "invalid score"

// evaluate maps a submitted score onto the test's interpretation table.
func (s *Server) evaluate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req evaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing score"})
		return
	}

	text, matched, err := s.tests.Evaluate(c.Request.Context(), id, *req.Score)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if !matched {
		text = noMatchResult
	}
	c.JSON(http.StatusOK, gin.H{"result": text})
}
