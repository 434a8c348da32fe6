// Package student contains the student directory model.
package student

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidID       = errors.New("student: invalid student id")
	ErrInvalidUsername = errors.New("student: invalid username")
	ErrInvalidName     = errors.New("student: invalid name")
	ErrInvalidRole     = errors.New("student: invalid role")
)

// Role separates students from the adults who view their records.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleParent  Role = "parent"
	RoleAdmin   Role = "admin"
)

// IsValid reports whether the role is one of the known values.
func (r Role) IsValid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleParent, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// Student is a directory entry. Only role=student participates in
// leaderboards and badge evaluation.
type Student struct {
	ID           string
	Username     string
	PasswordHash string
	Role         Role
	Name         string
	ClassName    string
	Grade        int
	Email        string
	Phone        string
	CreatedAt    time.Time
}

// NewStudent builds a validated directory entry.
func NewStudent(id, username, passwordHash string, role Role, name string) (*Student, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidID
	}
	if strings.TrimSpace(username) == "" {
		return nil, ErrInvalidUsername
	}
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidName
	}
	return &Student{
		ID:           id,
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
		Name:         name,
		CreatedAt:    time.Now(),
	}, nil
}

// IsStudent reports whether the entry participates in rankings.
func (s *Student) IsStudent() bool {
	return s.Role == RoleStudent
}
