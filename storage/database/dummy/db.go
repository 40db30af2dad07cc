package dummydb

import (
	"sync"

	"github.com/streamlineer/streamlineer/core/audit"
	"github.com/streamlineer/streamlineer/core/inspection"
	"github.com/streamlineer/streamlineer/core/task"
	"github.com/streamlineer/streamlineer/core/template"
	"github.com/streamlineer/streamlineer/core/user"
)

type (
	DB struct {
		user       *userTable
		template   *templateTable
		inspection *inspectionTable
		task       *taskTable
		audit      *auditTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	templateTable struct {
		sync.RWMutex
		table map[string]*template.Template
	}

	inspectionTable struct {
		sync.RWMutex
		table map[string]*inspection.Inspection
	}

	taskTable struct {
		sync.RWMutex
		table map[string]*task.Task
	}

	auditTable struct {
		sync.RWMutex
		userEntries       []audit.UserEntry
		inspectionEntries []audit.InspectionEntry
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:       &userTable{table: make(map[string]*user.User)},
		template:   &templateTable{table: make(map[string]*template.Template)},
		inspection: &inspectionTable{table: make(map[string]*inspection.Inspection)},
		task:       &taskTable{table: make(map[string]*task.Task)},
		audit:      &auditTable{},
	}
	return db, nil
}
