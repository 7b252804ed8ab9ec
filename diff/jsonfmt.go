package diff

import (
	"strconv"

	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// FormatJSON renders a changeset as a pretty-printed JSON document:
// each change becomes one entry in a "changes" array, built
// incrementally with sjson (mirroring the teacher pack's gjson/sjson
// usage for JSON surgery rather than a full marshal/unmarshal round
// trip) and pretty-printed with tidwall/pretty.
func FormatJSON(cs *Changeset) ([]byte, error) {
	doc := []byte(`{"changes":[]}`)
	var err error
	doc, err = sjson.SetBytes(doc, "impact_level", string(cs.ImpactLevel))
	if err != nil {
		return nil, err
	}

	for i, c := range cs.Changes {
		base := "changes." + strconv.Itoa(i)
		doc, err = sjson.SetBytes(doc, base+".type", string(c.Type))
		if err != nil {
			return nil, err
		}
		doc, err = sjson.SetBytes(doc, base+".path", c.Path)
		if err != nil {
			return nil, err
		}
		doc, err = sjson.SetBytes(doc, base+".old", c.Old)
		if err != nil {
			return nil, err
		}
		doc, err = sjson.SetBytes(doc, base+".new", c.New)
		if err != nil {
			return nil, err
		}
		doc, err = sjson.SetBytes(doc, base+".critical", c.Criticality)
		if err != nil {
			return nil, err
		}
	}

	return pretty.Pretty(doc), nil
}
