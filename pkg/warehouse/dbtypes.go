package warehouse

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// jsonStringSlice adapts a []string to the JSONB columns used for
// Tenant.FilterPhrases and AccessToken.TenantIDs — models stays
// persistence-agnostic (pkg/models doc comment), so the JSON
// marshaling lives here instead of on the domain type.
type jsonStringSlice []string

func (s jsonStringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return json.Marshal([]string(s))
}

func (s *jsonStringSlice) Scan(src any) error {
	if src == nil {
		*s = nil
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		if str, ok := src.(string); ok {
			b = []byte(str)
		} else {
			return fmt.Errorf("jsonStringSlice: unsupported scan type %T", src)
		}
	}
	var out []string
	if err := json.Unmarshal(b, &out); err != nil {
		return err
	}
	*s = out
	return nil
}

// jsonStringMap adapts a map[string]string to the JSONB columns used for
// Tenant.PromptFragments and AuditEntry.Metadata.
type jsonStringMap map[string]string

func (m jsonStringMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	return json.Marshal(map[string]string(m))
}

func (m *jsonStringMap) Scan(src any) error {
	if src == nil {
		*m = nil
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		if str, ok := src.(string); ok {
			b = []byte(str)
		} else {
			return fmt.Errorf("jsonStringMap: unsupported scan type %T", src)
		}
	}
	var out map[string]string
	if err := json.Unmarshal(b, &out); err != nil {
		return err
	}
	*m = out
	return nil
}
