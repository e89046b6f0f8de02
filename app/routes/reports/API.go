package reports

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/smugflex-sys/Final-sub000/app/database"
	"github.com/smugflex-sys/Final-sub000/app/models"
	"github.com/smugflex-sys/Final-sub000/app/routes/common"
	"github.com/smugflex-sys/Final-sub000/app/routes/fees"
	"github.com/smugflex-sys/Final-sub000/app/routes/results"
	"github.com/smugflex-sys/Final-sub000/app/services"
)

type handler struct {
	*common.Deps
}

// DashboardStats are the headline numbers of the dashboard home page.
type DashboardStats struct {
	TotalStudents       int              `json:"total_students"`
	TotalTeachers       int              `json:"total_teachers"`
	TotalClasses        int              `json:"total_classes"`
	TotalParents        int              `json:"total_parents"`
	TotalSubjects       int              `json:"total_subjects"`
	VerifiedPayments    float64          `json:"verified_payments"`
	PendingPayments     int              `json:"pending_payments"`
	PendingAmount       float64          `json:"pending_amount"`
	AttendanceToday     float64          `json:"attendance_today"`
	UnreadNotifications int              `json:"unread_notifications"`
	RecentPayments      []models.Payment `json:"recent_payments"`
}

func percent(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return math.Round(part/whole*10000) / 100
}

// GetDashboardStatsAPI returns dashboard statistics as JSON. Payment figures
// cover ?term=&session= when both are given, otherwise every payment.
func (h *handler) GetDashboardStatsAPI(c *fiber.Ctx) error {
	ctx := c.UserContext()
	store := h.Store
	var stats DashboardStats
	var err error

	if stats.TotalStudents, err = store.Students.Count(ctx, database.Filter{"status": models.StatusActive}); err != nil {
		return err
	}
	if stats.TotalTeachers, err = store.Teachers.Count(ctx, database.Filter{"status": models.StatusActive}); err != nil {
		return err
	}
	if stats.TotalClasses, err = store.Classes.Count(ctx, database.Filter{"status": models.StatusActive}); err != nil {
		return err
	}
	if stats.TotalParents, err = store.Parents.Count(ctx, nil); err != nil {
		return err
	}
	if stats.TotalSubjects, err = store.Subjects.Count(ctx, nil); err != nil {
		return err
	}

	where := database.Filter{}
	if c.Query("term") != "" || c.Query("session") != "" {
		term, session, err := common.TermQuery(c)
		if err != nil {
			return err
		}
		where["term"], where["session"] = term, session
	}
	payments, err := database.All(ctx, store.Payments, where)
	if err != nil {
		return err
	}
	for _, p := range payments {
		if p.IsVerified() {
			stats.VerifiedPayments += p.Amount
		} else {
			stats.PendingPayments++
			stats.PendingAmount += p.Amount
		}
	}
	recent := payments
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}
	stats.RecentPayments = make([]models.Payment, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		stats.RecentPayments = append(stats.RecentPayments, recent[i])
	}

	today, err := database.All(ctx, store.Attendance, database.Filter{"date": models.NewDate(h.Clock()).String()})
	if err != nil {
		return err
	}
	attended := 0
	for _, a := range today {
		if a.Status == models.Present || a.Status == models.Late {
			attended++
		}
	}
	stats.AttendanceToday = percent(float64(attended), float64(len(today)))

	if stats.UnreadNotifications, err = store.Notifications.Count(ctx, database.Filter{
		"user_id": common.CurrentUser(c).ID,
		"is_read": false,
	}); err != nil {
		return err
	}

	return common.OK(c, stats)
}

// GetBroadsheetAPI returns the compiled results of a class for ?term=&session=.
// With ?format=xlsx the broadsheet is downloaded as a workbook.
func (h *handler) GetBroadsheetAPI(c *fiber.Ctx) error {
	id, err := common.ParamID(c, "id")
	if err != nil {
		return err
	}
	term, session, err := common.TermQuery(c)
	if err != nil {
		return err
	}
	class, err := h.Store.Classes.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	compiled, err := results.ClassResults(c.UserContext(), h.Deps, id, term, session, false)
	if err != nil {
		return err
	}

	if c.Query("format") != "xlsx" {
		return common.OK(c, fiber.Map{"class": class, "results": compiled})
	}

	headers := []string{"Position", "Admission No", "Name"}
	for _, s := range compiled.Subjects {
		headers = append(headers, s.SubjectName)
	}
	headers = append(headers, "Total", "Average", "Grade", "Remark")

	rows := make([][]interface{}, 0, len(compiled.Students))
	for _, s := range compiled.Students {
		bySubject := make(map[int64]float64, len(s.Subjects))
		for _, sub := range s.Subjects {
			bySubject[sub.SubjectID] = sub.Total
		}
		row := []interface{}{s.Ordinal, s.AdmissionNo, s.Name}
		for _, sub := range compiled.Subjects {
			if total, ok := bySubject[sub.SubjectID]; ok {
				row = append(row, total)
			} else {
				row = append(row, "")
			}
		}
		row = append(row, s.Total, s.Average, s.Grade, s.Remark)
		rows = append(rows, row)
	}

	filename := fmt.Sprintf("broadsheet_%s_%s_%s.xlsx", slug(class.Name), slug(string(term)), slug(session))
	return sendWorkbook(c, filename, "Broadsheet", headers, rows)
}

// ClassFees is one row of the fees report.
type ClassFees struct {
	ClassID        int64   `json:"class_id"`
	ClassName      string  `json:"class_name"`
	Students       int     `json:"students"`
	Required       float64 `json:"required"`
	Paid           float64 `json:"paid"`
	Pending        float64 `json:"pending"`
	Outstanding    float64 `json:"outstanding"`
	CollectionRate float64 `json:"collection_rate"`
}

// GetFeesReportAPI summarises fee collection per class for ?term=&session=.
func (h *handler) GetFeesReportAPI(c *fiber.Ctx) error {
	term, session, err := common.TermQuery(c)
	if err != nil {
		return err
	}
	ctx := c.UserContext()
	classes, err := database.All(ctx, h.Store.Classes, nil)
	if err != nil {
		return err
	}

	report := make([]ClassFees, 0, len(classes))
	var total ClassFees
	for _, class := range classes {
		students, totals, err := fees.ClassBalances(ctx, h.Store, class.ID, term, session)
		if err != nil {
			return err
		}
		row := ClassFees{
			ClassID:        class.ID,
			ClassName:      class.Name,
			Students:       len(students),
			Required:       totals.Required,
			Paid:           totals.Paid,
			Pending:        totals.Pending,
			Outstanding:    totals.Balance,
			CollectionRate: percent(totals.Paid, totals.Required),
		}
		report = append(report, row)
		total.Students += row.Students
		total.Required += row.Required
		total.Paid += row.Paid
		total.Pending += row.Pending
		total.Outstanding += row.Outstanding
	}
	total.CollectionRate = percent(total.Paid, total.Required)

	if c.Query("format") == "xlsx" {
		headers := []string{"Class", "Students", "Required", "Paid", "Pending", "Outstanding", "Collection %"}
		rows := make([][]interface{}, 0, len(report)+1)
		for _, r := range report {
			rows = append(rows, []interface{}{r.ClassName, r.Students, r.Required, r.Paid, r.Pending, r.Outstanding, r.CollectionRate})
		}
		rows = append(rows, []interface{}{"Total", total.Students, total.Required, total.Paid, total.Pending, total.Outstanding, total.CollectionRate})
		filename := fmt.Sprintf("fees_%s_%s.xlsx", slug(string(term)), slug(session))
		return sendWorkbook(c, filename, "Fees", headers, rows)
	}

	return common.OK(c, fiber.Map{
		"term":    term,
		"session": session,
		"classes": report,
		"total":   total,
	})
}

func sendWorkbook(c *fiber.Ctx, filename, sheet string, headers []string, rows [][]interface{}) error {
	var buf bytes.Buffer
	if err := services.WriteTable(&buf, sheet, headers, rows); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, services.XLSXContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}

func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "/", "-").Replace(s)
}
