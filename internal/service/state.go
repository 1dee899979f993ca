package service

import (
	"github.com/noah-isme/school-portal/internal/models"
	"github.com/noah-isme/school-portal/internal/repository"
)

// State is the authoritative in-memory portal data. It is not safe for
// concurrent use; Portal serialises every access.
type State struct {
	Students    []models.Student
	Materials   []models.Material
	Assignments []models.Assignment
	Identity    *models.Identity
	Live        models.LiveSession
}

// NewState seeds state from a loaded snapshot. A nil snapshot yields empty
// collections.
func NewState(snap *repository.Snapshot) *State {
	s := &State{
		Students:    []models.Student{},
		Materials:   []models.Material{},
		Assignments: []models.Assignment{},
	}
	if snap == nil {
		return s
	}
	if snap.Students != nil {
		s.Students = snap.Students
	}
	if snap.Materials != nil {
		s.Materials = snap.Materials
	}
	if snap.Assignments != nil {
		s.Assignments = snap.Assignments
	}
	s.Identity = snap.Identity
	return s
}

func (s *State) studentByID(id string) *models.Student {
	for i := range s.Students {
		if s.Students[i].ID == id {
			return &s.Students[i]
		}
	}
	return nil
}

func (s *State) studentByRollNumber(roll string) *models.Student {
	for i := range s.Students {
		if s.Students[i].RollNumber == roll {
			return &s.Students[i]
		}
	}
	return nil
}

func (s *State) assignmentIndex(id string) int {
	for i := range s.Assignments {
		if s.Assignments[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *State) hasStudentID(id string) bool {
	return s.studentByID(id) != nil
}

func (s *State) hasMaterialID(id string) bool {
	for i := range s.Materials {
		if s.Materials[i].ID == id {
			return true
		}
	}
	return false
}

func (s *State) hasAssignmentID(id string) bool {
	return s.assignmentIndex(id) >= 0
}

func copyStudents(in []models.Student) []models.Student {
	return append(make([]models.Student, 0, len(in)), in...)
}

func copyMaterials(in []models.Material) []models.Material {
	return append(make([]models.Material, 0, len(in)), in...)
}

func copyAssignments(in []models.Assignment) []models.Assignment {
	out := make([]models.Assignment, len(in))
	for i, a := range in {
		out[i] = cloneAssignment(a)
	}
	return out
}

func cloneAssignment(a models.Assignment) models.Assignment {
	if a.Marks != nil {
		marks := *a.Marks
		a.Marks = &marks
	}
	if a.TeacherComment != nil {
		comment := *a.TeacherComment
		a.TeacherComment = &comment
	}
	return a
}

func cloneIdentity(id *models.Identity) *models.Identity {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}

func cloneLive(l models.LiveSession) models.LiveSession {
	if l.StartTime != nil {
		start := *l.StartTime
		l.StartTime = &start
	}
	return l
}
