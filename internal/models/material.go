package models

import "time"

// MaterialType classifies course material.
type MaterialType string

const (
	MaterialSlide    MaterialType = "SLIDE"
	MaterialLecture  MaterialType = "LECTURE"
	MaterialDocument MaterialType = "DOCUMENT"
)

// Material is a teacher-published resource. Content is opaque text.
type Material struct {
	ID      string       `json:"id"`
	Title   string       `json:"title"`
	Type    MaterialType `json:"type"`
	Content string       `json:"content"`
	Date    time.Time    `json:"date"`
}
