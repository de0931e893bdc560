package model

import (
	"sort"

	"github.com/samber/lo"
)

// DepartmentSTPI общий подготовительный цикл первых двух курсов
const DepartmentSTPI = "stpi"

// Subject идентифицируется тройкой (name, department, year).
// Структура сравнима, поэтому годится как ключ map.
type Subject struct {
	Name       string `json:"name" validate:"required"`
	Department string `json:"department" validate:"required"`
	Year       int    `json:"year" validate:"gte=1,lte=8"`
}

// SubjectSet множество предметов со структурным равенством
type SubjectSet map[Subject]struct{}

// NewSubjectSet создаёт множество из списка, дубликаты схлопываются
func NewSubjectSet(subjects ...Subject) SubjectSet {
	set := make(SubjectSet, len(subjects))
	for _, s := range subjects {
		set[s] = struct{}{}
	}
	return set
}

func (s SubjectSet) Contains(subject Subject) bool {
	_, ok := s[subject]
	return ok
}

func (s SubjectSet) Len() int {
	return len(s)
}

// Intersect возвращает предметы, входящие в оба множества
func (s SubjectSet) Intersect(other SubjectSet) SubjectSet {
	out := make(SubjectSet)
	for subject := range s {
		if other.Contains(subject) {
			out[subject] = struct{}{}
		}
	}
	return out
}

// Without возвращает копию множества без предметов из other
func (s SubjectSet) Without(other SubjectSet) SubjectSet {
	out := make(SubjectSet, len(s))
	for subject := range s {
		if !other.Contains(subject) {
			out[subject] = struct{}{}
		}
	}
	return out
}

// Slice возвращает предметы в стабильном порядке: год, департамент, название
func (s SubjectSet) Slice() []Subject {
	subjects := lo.Keys(s)
	sort.Slice(subjects, func(i, j int) bool {
		a, b := subjects[i], subjects[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.Department != b.Department {
			return a.Department < b.Department
		}
		return a.Name < b.Name
	})
	return subjects
}
