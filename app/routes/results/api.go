package results

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/smugflex-sys/Final-sub000/app/database"
	"github.com/smugflex-sys/Final-sub000/app/models"
	"github.com/smugflex-sys/Final-sub000/app/routes/common"
	"github.com/smugflex-sys/Final-sub000/app/services"
)

type handler struct {
	*common.Deps
}

type scoreInput struct {
	StudentID int64   `json:"student_id" validate:"required"`
	CA1       float64 `json:"ca1"`
	CA2       float64 `json:"ca2"`
	Exam      float64 `json:"exam"`
}

// loadAssignment returns the assignment and checks that the current user may
// enter scores for it: admins always, teachers only for their own assignments.
func (h *handler) loadAssignment(c *fiber.Ctx, id int64) (models.SubjectAssignment, error) {
	a, err := h.Store.SubjectAssignments.Get(c.UserContext(), id)
	if err != nil {
		if database.IsNotFound(err) {
			return a, common.NewValidationError("assignment_id", "assignment_id does not reference an existing record")
		}
		return a, err
	}
	if common.HasRole(c, models.RoleAdmin) {
		return a, nil
	}
	if a.TeacherID != nil {
		teacher, err := h.Store.Teachers.Get(c.UserContext(), *a.TeacherID)
		if err != nil && !database.IsNotFound(err) {
			return a, err
		}
		if err == nil && teacher.UserID != nil && *teacher.UserID == common.CurrentUser(c).ID {
			return a, nil
		}
	}
	return a, fiber.NewError(fiber.StatusForbidden, "You do not teach this subject in this class")
}

// checkStudent rejects students who are not enrolled in the assignment's class.
func (h *handler) checkStudent(c *fiber.Ctx, a models.SubjectAssignment, studentID int64) error {
	student, err := h.Store.Students.Get(c.UserContext(), studentID)
	if err != nil {
		if database.IsNotFound(err) {
			return common.NewValidationError("student_id", "student_id does not reference an existing record")
		}
		return err
	}
	if !student.InClass(a.ClassID) {
		return common.NewValidationError("student_id", "student is not enrolled in the assignment's class")
	}
	return nil
}

// saveScore grades the marks and stores them, replacing an existing score of
// the student for the same assignment and term.
func (h *handler) saveScore(c *fiber.Ctx, a models.SubjectAssignment, term models.Term, in scoreInput) (models.Score, error) {
	ctx := c.UserContext()
	if err := h.checkStudent(c, a, in.StudentID); err != nil {
		return models.Score{}, err
	}

	agg, err := services.AggregateScore(in.CA1, in.CA2, in.Exam, h.Maxima())
	if err != nil {
		return models.Score{}, err
	}

	score, err := database.First(ctx, h.Store.Scores, database.Filter{
		"student_id":    in.StudentID,
		"assignment_id": a.ID,
		"term":          term,
		"session":       a.Session,
	})
	isNew := database.IsNotFound(err)
	if err != nil && !isNew {
		return models.Score{}, err
	}

	score.StudentID = in.StudentID
	score.AssignmentID = a.ID
	score.ClassID = a.ClassID
	score.SubjectID = a.SubjectID
	score.Term = term
	score.Session = a.Session
	score.CA1, score.CA2, score.Exam = in.CA1, in.CA2, in.Exam
	score.Total, score.Grade, score.Remark = agg.Total, agg.Grade, agg.Remark

	if isNew {
		err = h.Store.Scores.Create(ctx, &score)
	} else {
		err = h.Store.Scores.Update(ctx, &score)
	}
	if err != nil {
		return models.Score{}, err
	}
	return score, nil
}

func (h *handler) GetScoresAPI(c *fiber.Ctx) error {
	where, err := common.Filters(c, "student_id", "class_id", "subject_id", "assignment_id", "term", "session")
	if err != nil {
		return err
	}
	limit, offset := common.Page(c)
	scores, err := h.Store.Scores.List(c.UserContext(), database.Query{Where: where, Limit: limit, Offset: offset})
	if err != nil {
		return err
	}
	total, err := h.Store.Scores.Count(c.UserContext(), where)
	if err != nil {
		return err
	}
	return common.List(c, scores, total)
}

func (h *handler) GetScoreAPI(c *fiber.Ctx) error {
	id, err := common.ParamID(c, "id")
	if err != nil {
		return err
	}
	score, err := h.Store.Scores.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return common.OK(c, score)
}

// CreateScoreAPI records the marks of one student. Posting again for the
// same student, assignment and term overwrites the previous marks.
func (h *handler) CreateScoreAPI(c *fiber.Ctx) error {
	var req struct {
		scoreInput
		AssignmentID int64       `json:"assignment_id" validate:"required"`
		Term         models.Term `json:"term" validate:"required,enum"`
	}
	if err := common.ParseBody(c, &req); err != nil {
		return err
	}
	a, err := h.loadAssignment(c, req.AssignmentID)
	if err != nil {
		return err
	}
	score, err := h.saveScore(c, a, req.Term, req.scoreInput)
	if err != nil {
		return err
	}
	InvalidateClass(c.UserContext(), h.Deps, a.ClassID)
	return common.Created(c, score)
}

// BatchSaveScoresAPI records the marks of several students for one assignment.
// Nothing is saved if any row is invalid.
func (h *handler) BatchSaveScoresAPI(c *fiber.Ctx) error {
	var req struct {
		AssignmentID int64        `json:"assignment_id" validate:"required"`
		Term         models.Term  `json:"term" validate:"required,enum"`
		Scores       []scoreInput `json:"scores" validate:"required,min=1,dive"`
	}
	if err := common.ParseBody(c, &req); err != nil {
		return err
	}
	a, err := h.loadAssignment(c, req.AssignmentID)
	if err != nil {
		return err
	}

	// Check every row before writing any.
	for _, in := range req.Scores {
		if _, err := services.AggregateScore(in.CA1, in.CA2, in.Exam, h.Maxima()); err != nil {
			return err
		}
		if err := h.checkStudent(c, a, in.StudentID); err != nil {
			return err
		}
	}

	saved := make([]models.Score, 0, len(req.Scores))
	for _, in := range req.Scores {
		score, err := h.saveScore(c, a, req.Term, in)
		if err != nil {
			return err
		}
		saved = append(saved, score)
	}
	InvalidateClass(c.UserContext(), h.Deps, a.ClassID)

	h.Log.Info("scores saved",
		zap.Int64("assignment_id", a.ID),
		zap.String("term", string(req.Term)),
		zap.Int("count", len(saved)))
	return common.OK(c, fiber.Map{"scores": saved, "count": len(saved)})
}

// UpdateScoreAPI changes the marks of a score. Omitted marks are kept.
func (h *handler) UpdateScoreAPI(c *fiber.Ctx) error {
	id, err := common.ParamID(c, "id")
	if err != nil {
		return err
	}
	var req struct {
		CA1  *float64 `json:"ca1"`
		CA2  *float64 `json:"ca2"`
		Exam *float64 `json:"exam"`
	}
	if err := common.ParseBody(c, &req); err != nil {
		return err
	}

	score, err := h.Store.Scores.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	a, err := h.loadAssignment(c, score.AssignmentID)
	if err != nil {
		return err
	}

	in := scoreInput{StudentID: score.StudentID, CA1: score.CA1, CA2: score.CA2, Exam: score.Exam}
	if req.CA1 != nil {
		in.CA1 = *req.CA1
	}
	if req.CA2 != nil {
		in.CA2 = *req.CA2
	}
	if req.Exam != nil {
		in.Exam = *req.Exam
	}
	saved, err := h.saveScore(c, a, score.Term, in)
	if err != nil {
		return err
	}
	InvalidateClass(c.UserContext(), h.Deps, a.ClassID)
	return common.OK(c, saved)
}

func (h *handler) DeleteScoreAPI(c *fiber.Ctx) error {
	id, err := common.ParamID(c, "id")
	if err != nil {
		return err
	}
	score, err := h.Store.Scores.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	if _, err := h.loadAssignment(c, score.AssignmentID); err != nil {
		return err
	}
	if err := h.Store.Scores.Delete(c.UserContext(), id); err != nil {
		return err
	}
	InvalidateClass(c.UserContext(), h.Deps, score.ClassID)
	return common.Message(c, "Score deleted successfully")
}

// CompileResultsAPI recompiles the positions and averages of a class for a term.
func (h *handler) CompileResultsAPI(c *fiber.Ctx) error {
	var req struct {
		ClassID int64       `json:"class_id" validate:"required"`
		Term    models.Term `json:"term" validate:"required,enum"`
		Session string      `json:"session" validate:"required,session"`
	}
	if err := common.ParseBody(c, &req); err != nil {
		return err
	}
	if _, err := h.Store.Classes.Get(c.UserContext(), req.ClassID); err != nil {
		return err
	}
	result, err := ClassResults(c.UserContext(), h.Deps, req.ClassID, req.Term, req.Session, true)
	if err != nil {
		return err
	}
	h.Log.Info("results compiled",
		zap.Int64("class_id", req.ClassID),
		zap.String("term", string(req.Term)),
		zap.String("session", req.Session),
		zap.Int("students", len(result.Students)))
	return common.OK(c, result)
}

// GetReportCardAPI returns a student's compiled term result.
// ?term=&session= are required; ?class_id= defaults to the student's class.
func (h *handler) GetReportCardAPI(c *fiber.Ctx) error {
	id, err := common.ParamID(c, "id")
	if err != nil {
		return err
	}
	term, session, err := common.TermQuery(c)
	if err != nil {
		return err
	}
	classID, err := common.QueryID(c, "class_id")
	if err != nil {
		return err
	}

	ctx := c.UserContext()
	student, err := h.Store.Students.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := h.CanViewStudent(c, student); err != nil {
		return err
	}
	if classID == 0 {
		if student.ClassID == nil {
			return fiber.NewError(fiber.StatusNotFound, "Student is not in a class")
		}
		classID = *student.ClassID
	}
	class, err := h.Store.Classes.Get(ctx, classID)
	if err != nil {
		return err
	}

	compiled, err := ClassResults(ctx, h.Deps, classID, term, session, false)
	if err != nil {
		return err
	}
	result, ok := compiled.Student(id)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "No results for this term")
	}

	return common.OK(c, fiber.Map{
		"student":       student,
		"class":         class,
		"term":          term,
		"session":       session,
		"result":        result,
		"class_average": compiled.ClassAverage,
		"class_size":    len(compiled.Students),
	})
}

type gradeBand struct {
	Grade  string  `json:"grade"`
	Min    float64 `json:"min"`
	Remark string  `json:"remark"`
}

// GetGradingAPI returns the score maxima and grade bands in use.
func (h *handler) GetGradingAPI(c *fiber.Ctx) error {
	bands := make([]gradeBand, 0, 6)
	for _, floor := range []float64{80, 70, 60, 50, 45, 0} {
		g := services.GradeFor(floor)
		bands = append(bands, gradeBand{Grade: g, Min: floor, Remark: services.RemarkFor(g)})
	}
	m := h.Maxima()
	return common.OK(c, fiber.Map{
		"maxima": fiber.Map{"ca1": m.CA1, "ca2": m.CA2, "exam": m.Exam},
		"grades": bands,
	})
}
