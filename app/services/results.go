package services

import (
	"sort"

	"github.com/smugflex-sys/Final-sub000/app/models"
)

// SubjectResult is one line of a report card.
type SubjectResult struct {
	SubjectID   int64   `json:"subject_id"`
	SubjectName string  `json:"subject_name"`
	CA1         float64 `json:"ca1"`
	CA2         float64 `json:"ca2"`
	Exam        float64 `json:"exam"`
	Total       float64 `json:"total"`
	Grade       string  `json:"grade"`
	Remark      string  `json:"remark"`
	Position    int     `json:"position"`
	Ordinal     string  `json:"ordinal"`
}

// StudentResult is a student's compiled term result.
type StudentResult struct {
	StudentID   int64           `json:"student_id"`
	AdmissionNo string          `json:"admission_no"`
	Name        string          `json:"name"`
	Subjects    []SubjectResult `json:"subjects"`
	Total       float64         `json:"total"`
	Average     float64         `json:"average"`
	Grade       string          `json:"grade"`
	Remark      string          `json:"remark"`
	Position    int             `json:"position"`
	Ordinal     string          `json:"ordinal"`
}

// ClassResult is the broadsheet of one class for a term.
type ClassResult struct {
	ClassID      int64            `json:"class_id"`
	Term         models.Term      `json:"term"`
	Session      string           `json:"session"`
	Students     []StudentResult  `json:"students"`
	ClassAverage float64          `json:"class_average"`
	Subjects     []SubjectAverage `json:"subjects"`
}

// SubjectAverage is the class mean for one subject.
type SubjectAverage struct {
	SubjectID   int64   `json:"subject_id"`
	SubjectName string  `json:"subject_name"`
	Average     float64 `json:"average"`
	Entries     int     `json:"entries"`
}

// CompileClassResults groups scores by student, ranks students by their
// average over the subjects they sat and ranks every subject separately.
// Students without any score are left out.
func CompileClassResults(classID int64, term models.Term, session string, students []models.Student, subjects []models.Subject, scores []models.Score) ClassResult {
	names := make(map[int64]string, len(subjects))
	for _, s := range subjects {
		names[s.ID] = s.Name
	}

	bySubject := make(map[int64][]RankEntry)
	byStudent := make(map[int64][]models.Score)
	for _, sc := range scores {
		byStudent[sc.StudentID] = append(byStudent[sc.StudentID], sc)
	}

	var order []models.Student
	for _, st := range students {
		if len(byStudent[st.ID]) > 0 {
			order = append(order, st)
		}
	}
	for _, st := range order {
		for _, sc := range byStudent[st.ID] {
			bySubject[sc.SubjectID] = append(bySubject[sc.SubjectID], RankEntry{StudentID: st.ID, Total: sc.Total})
		}
	}

	// subject id -> student id -> ranked entry
	subjectPos := make(map[int64]map[int64]RankedEntry, len(bySubject))
	subjectIDs := make([]int64, 0, len(bySubject))
	averages := make(map[int64]SubjectAverage, len(bySubject))
	for id, entries := range bySubject {
		r := RankClass(entries)
		pos := make(map[int64]RankedEntry, len(r.Entries))
		for _, e := range r.Entries {
			pos[e.StudentID] = e
		}
		subjectPos[id] = pos
		subjectIDs = append(subjectIDs, id)
		averages[id] = SubjectAverage{SubjectID: id, SubjectName: names[id], Average: r.Average, Entries: len(entries)}
	}
	sort.Slice(subjectIDs, func(i, j int) bool { return subjectIDs[i] < subjectIDs[j] })

	results := make(map[int64]*StudentResult, len(order))
	overall := make([]RankEntry, 0, len(order))
	for _, st := range order {
		sr := &StudentResult{StudentID: st.ID, AdmissionNo: st.AdmissionNo, Name: st.FullName()}
		list := byStudent[st.ID]
		sort.SliceStable(list, func(i, j int) bool { return list[i].SubjectID < list[j].SubjectID })
		for _, sc := range list {
			p := subjectPos[sc.SubjectID][st.ID]
			sr.Subjects = append(sr.Subjects, SubjectResult{
				SubjectID:   sc.SubjectID,
				SubjectName: names[sc.SubjectID],
				CA1:         sc.CA1,
				CA2:         sc.CA2,
				Exam:        sc.Exam,
				Total:       sc.Total,
				Grade:       sc.Grade,
				Remark:      sc.Remark,
				Position:    p.Position,
				Ordinal:     p.Ordinal,
			})
			sr.Total += sc.Total
		}
		sr.Total = round2(sr.Total)
		sr.Average = round2(sr.Total / float64(len(list)))
		sr.Grade = GradeFor(sr.Average)
		sr.Remark = RemarkFor(sr.Grade)
		results[st.ID] = sr
		overall = append(overall, RankEntry{StudentID: st.ID, Total: sr.Average})
	}

	ranking := RankClass(overall)
	out := ClassResult{
		ClassID:      classID,
		Term:         term,
		Session:      session,
		Students:     make([]StudentResult, 0, len(ranking.Entries)),
		ClassAverage: ranking.Average,
		Subjects:     make([]SubjectAverage, 0, len(subjectIDs)),
	}
	for _, e := range ranking.Entries {
		sr := results[e.StudentID]
		sr.Position = e.Position
		sr.Ordinal = e.Ordinal
		out.Students = append(out.Students, *sr)
	}
	for _, id := range subjectIDs {
		out.Subjects = append(out.Subjects, averages[id])
	}
	return out
}

// Student returns the compiled result of one student.
func (r ClassResult) Student(id int64) (StudentResult, bool) {
	for _, s := range r.Students {
		if s.StudentID == id {
			return s, true
		}
	}
	return StudentResult{}, false
}
