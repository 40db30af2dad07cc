package template

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/streamlineer/streamlineer/core"
)

// JSONB column support. The ordered collections and the AQL configuration are
// stored as single JSONB documents; serialization preserves element order.

func (f TitleFields) Value() (driver.Value, error) { return json.Marshal(f) }
func (f *TitleFields) Scan(src interface{}) error  { return core.ScanJSON(src, f) }

func (p Pages) Value() (driver.Value, error) { return json.Marshal(p) }
func (p *Pages) Scan(src interface{}) error  { return core.ScanJSON(src, p) }

func (c AQLConfig) Value() (driver.Value, error) { return json.Marshal(c) }
func (c *AQLConfig) Scan(src interface{}) error  { return core.ScanJSON(src, c) }
