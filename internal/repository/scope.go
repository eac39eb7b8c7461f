package repository

import (
	"gorm.io/gorm"

	"github.com/noah-isme/literacy-go-api/internal/models"
)

// Scope restricts queries to the roster owned by one teacher. The zero value matches nothing.
type Scope struct {
	OwnerID      uint
	Unrestricted bool
}

// OwnedBy scopes queries to classes owned by the given user.
func OwnedBy(userID uint) Scope {
	return Scope{OwnerID: userID}
}

// Everything disables ownership filtering. Used for administrator reads only.
func Everything() Scope {
	return Scope{Unrestricted: true}
}

// classIDs returns a subquery selecting the ids of classes visible in the scope.
func (s Scope) classIDs(db *gorm.DB) *gorm.DB {
	query := db.Session(&gorm.Session{NewDB: true}).Model(&models.Class{}).Select("classes.id")
	if s.Unrestricted {
		return query
	}
	return query.Where("classes.user_id = ?", s.OwnerID)
}

// studentIDs returns a subquery selecting the ids of students visible in the scope.
func (s Scope) studentIDs(db *gorm.DB) *gorm.DB {
	return db.Session(&gorm.Session{NewDB: true}).Model(&models.Student{}).
		Select("students.id").
		Where("students.class_id IN (?)", s.classIDs(db))
}

func applyPage(query *gorm.DB, page, pageSize int) *gorm.DB {
	if pageSize <= 0 {
		return query
	}
	if page <= 0 {
		page = 1
	}
	return query.Offset((page - 1) * pageSize).Limit(pageSize)
}
