package models

import "time"

// LiveSession is the process-wide live class flag. TeacherName is empty
// exactly when IsActive is false.
type LiveSession struct {
	IsActive    bool       `json:"isActive"`
	TeacherName string     `json:"teacherName"`
	StartTime   *time.Time `json:"startTime,omitempty"`
}
