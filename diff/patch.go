package diff

import (
	"encoding/json"
	"strings"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/xeipuuv/gojsonpointer"
)

// patchOp is one RFC 6902 operation.
type patchOp struct {
	Op    string      `json:"op"`
	Path  string      `json:"path"`
	Value interface{} `json:"value,omitempty"`
}

// FormatJSONPatch renders a changeset as an RFC 6902 JSON-Patch
// document. Each structural path is translated into a JSON pointer by
// toJSONPointer and checked with gojsonpointer before being embedded
// in an operation; a change whose pointer fails that check is left out.
func FormatJSONPatch(cs *Changeset) ([]byte, error) {
	var ops []patchOp
	for _, c := range cs.Changes {
		ptr := toJSONPointer(c.Path)
		if _, err := gojsonpointer.NewJsonPointer(ptr); err != nil {
			continue
		}
		switch c.Type {
		case ElementAdded, AttributeAdded:
			ops = append(ops, patchOp{Op: "add", Path: ptr, Value: c.New})
		case ElementRemoved, AttributeRemoved:
			ops = append(ops, patchOp{Op: "remove", Path: ptr})
		default:
			ops = append(ops, patchOp{Op: "replace", Path: ptr, Value: c.New})
		}
	}
	return json.Marshal(ops)
}

// toJSONPointer converts a structural path like
// "/ReleaseList/Release[0]/Title" into a JSON pointer
// "/ReleaseList/Release/0/Title", escaping '~' and '/' inside
// segments per RFC 6901.
func toJSONPointer(path string) string {
	segs := strings.Split(path, "/")
	var out []string
	for _, s := range segs {
		if s == "" {
			continue
		}
		if i := strings.IndexByte(s, '['); i >= 0 && strings.HasSuffix(s, "]") {
			out = append(out, escapePointerSeg(s[:i]), escapePointerSeg(s[i+1:len(s)-1]))
			continue
		}
		out = append(out, escapePointerSeg(s))
	}
	return "/" + strings.Join(out, "/")
}

func escapePointerSeg(s string) string {
	s = strings.ReplaceAll(s, "~", "~0")
	s = strings.ReplaceAll(s, "/", "~1")
	return s
}

// VerifyPatch applies patchBytes to oldJSON and reports whether the
// result equals newJSON under JSON structural equality — the
// "apply-verification property test" of spec.md §8.1's diff
// soundness law.
func VerifyPatch(oldJSON, newJSON, patchBytes []byte) (bool, error) {
	patch, err := jsonpatch.DecodePatch(patchBytes)
	if err != nil {
		return false, err
	}
	applied, err := patch.ApplyIndent(oldJSON, "")
	if err != nil {
		return false, err
	}

	var a, b interface{}
	if err := json.Unmarshal(applied, &a); err != nil {
		return false, err
	}
	if err := json.Unmarshal(newJSON, &b); err != nil {
		return false, err
	}
	return jsonEqual(a, b), nil
}

func jsonEqual(a, b interface{}) bool {
	am, aok := a.(map[string]interface{})
	bm, bok := b.(map[string]interface{})
	if aok != bok {
		return false
	}
	if aok {
		if len(am) != len(bm) {
			return false
		}
		for k, av := range am {
			bv, ok := bm[k]
			if !ok || !jsonEqual(av, bv) {
				return false
			}
		}
		return true
	}
	al, alok := a.([]interface{})
	bl, blok := b.([]interface{})
	if alok != blok {
		return false
	}
	if alok {
		if len(al) != len(bl) {
			return false
		}
		for i := range al {
			if !jsonEqual(al[i], bl[i]) {
				return false
			}
		}
		return true
	}
	return a == b
}
