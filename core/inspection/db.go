package inspection

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/streamlineer/streamlineer/core"
)

// JSONB column support for the response map and evaluated AQL structures.

func (r Responses) Value() (driver.Value, error) { return json.Marshal(r) }
func (r *Responses) Scan(src interface{}) error  { return core.ScanJSON(src, r) }

func (c DefectCounts) Value() (driver.Value, error) { return json.Marshal(c) }
func (c *DefectCounts) Scan(src interface{}) error  { return core.ScanJSON(src, c) }

func (r AQLResult) Value() (driver.Value, error) { return json.Marshal(r) }
func (r *AQLResult) Scan(src interface{}) error  { return core.ScanJSON(src, r) }

// RejectionReasons is the stored form of the flattened reason list.
type RejectionReasons []string

func (r RejectionReasons) Value() (driver.Value, error) { return json.Marshal(r) }
func (r *RejectionReasons) Scan(src interface{}) error  { return core.ScanJSON(src, r) }
