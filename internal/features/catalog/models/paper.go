package models

import "strings"

// Placeholder names used by catalog administrators to materialize an empty
// department, semester or year level. They are never sold.
const (
	SentinelDepartment = "__DEPT__"
	SentinelSemester   = "__SEM__"
	SentinelYear       = "__YEAR__"

	sentinelPrefix = "__"
)

var SentinelNames = []string{SentinelDepartment, SentinelSemester, SentinelYear}

// Paper is a row of the question paper inventory.
type Paper struct {
	ID         int64  `db:"id" json:"id"`
	Department string `db:"department" json:"department"`
	Semester   string `db:"semester" json:"semester"`
	Year       string `db:"year" json:"year"`
	PaperName  string `db:"paper_name" json:"paper_name"`
	Price      int64  `db:"price" json:"price"`
}

// PaperSummary is the listing projection of a paper.
// @Description Sellable paper in a department/semester/year
type PaperSummary struct {
	ID        int64  `db:"id" json:"id" example:"17"`
	PaperName string `db:"paper_name" json:"paper_name" example:"Data Structures"`
	Price     int64  `db:"price" json:"price" example:"10"`
}

// IsSentinelCategory reports whether a department/semester/year value is a
// placeholder that must stay out of listings.
func IsSentinelCategory(v string) bool {
	return v == "" || strings.HasPrefix(v, sentinelPrefix)
}

func IsSentinelName(name string) bool {
	for _, s := range SentinelNames {
		if name == s {
			return true
		}
	}
	return false
}
