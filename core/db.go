package core

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// ScanJSON unmarshals a JSONB column value into dst. Implementors of
// sql.Scanner for JSON-stored aggregate types delegate here.
func ScanJSON(src, dst interface{}) error {
	if src == nil {
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return errors.Errorf("unsupported JSONB source type %T", src)
	}
	return json.Unmarshal(b, dst)
}

type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}
