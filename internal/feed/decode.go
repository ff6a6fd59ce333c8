// Package feed loads raw listing payloads from files and HTTP endpoints and
// decodes them into catalog records. A payload is either a bare array of
// records or an envelope exposing them under a buyers, rows, or items key.
package feed

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/lead-radar/internal/catalog"
)

// envelope is the wrapper shape some sources use. Only one of the keys is
// expected to be populated; the first non-empty one wins.
type envelope struct {
	Buyers []catalog.RawRecord `json:"buyers" yaml:"buyers"`
	Rows   []catalog.RawRecord `json:"rows" yaml:"rows"`
	Items  []catalog.RawRecord `json:"items" yaml:"items"`
}

func (e envelope) records() []catalog.RawRecord {
	switch {
	case len(e.Buyers) > 0:
		return e.Buyers
	case len(e.Rows) > 0:
		return e.Rows
	default:
		return e.Items
	}
}

// DecodeJSON decodes a JSON payload into raw records. Bare arrays are
// decoded element by element so a single malformed record is skipped rather
// than poisoning the whole source.
func DecodeJSON(data []byte) ([]catalog.RawRecord, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err == nil {
		records := make([]catalog.RawRecord, 0, len(elems))
		skipped := 0
		for _, e := range elems {
			var rec catalog.RawRecord
			if err := json.Unmarshal(e, &rec); err != nil {
				skipped++
				continue
			}
			records = append(records, rec)
		}
		if skipped > 0 {
			zap.L().Debug("feed: skipped malformed records", zap.Int("skipped", skipped))
		}
		return records, nil
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, eris.Wrap(err, "feed: decode json payload")
	}
	return env.records(), nil
}

// DecodeYAML decodes a YAML payload, accepting the same bare-array and
// envelope shapes as DecodeJSON.
func DecodeYAML(data []byte) ([]catalog.RawRecord, error) {
	var records []catalog.RawRecord
	if err := yaml.Unmarshal(data, &records); err == nil {
		return records, nil
	}

	var env envelope
	if err := yaml.Unmarshal(data, &env); err != nil {
		return nil, eris.Wrap(err, "feed: decode yaml payload")
	}
	return env.records(), nil
}
