package diff

import (
	"fmt"
	"sort"
	"time"

	"ddexcore/config"
	"ddexcore/model"
)

// Diff compares old and new, the graph views of two parsed ERN
// messages, and returns a sorted changeset.
func Diff(old, new_ *model.Message, cfg config.DiffConfig) *Changeset {
	var changes []Change

	changes = append(changes, diffHeader(old.Header, new_.Header)...)
	changes = append(changes, diffParties(old.Parties, new_.Parties, cfg)...)
	changes = append(changes, diffResources(old.Resources, new_.Resources, cfg)...)
	changes = append(changes, diffReleases(old.Releases, new_.Releases, cfg)...)
	changes = append(changes, diffDeals(old.Deals, new_.Deals, cfg)...)

	sortChanges(changes)

	return &Changeset{Changes: changes, ImpactLevel: computeImpact(changes)}
}

// DiffParsed compares two perfect-fidelity parses, including their
// non-semantic side channel (comments, processing instructions) in
// addition to everything Diff already compares on the graph view.
// cfg.IgnoreFormatting suppresses the side-channel comparison
// entirely, leaving only the structural diff Diff itself produces.
func DiffParsed(old, new_ *model.ParsedMessage, cfg config.DiffConfig) *Changeset {
	cs := Diff(old.Graph, new_.Graph, cfg)
	if cfg.IgnoreFormatting || old.Side == nil || new_.Side == nil {
		return cs
	}

	changes := append([]Change{}, cs.Changes...)
	changes = append(changes, diffTextByPath("Comment", old.Side.Comments, new_.Side.Comments)...)
	changes = append(changes, diffTextByPath("ProcessingInstruction", old.Side.ProcessingInstructions, new_.Side.ProcessingInstructions)...)

	sortChanges(changes)
	return &Changeset{Changes: changes, ImpactLevel: computeImpact(changes)}
}

// diffTextByPath compares two path->[]text side-channel maps and
// reports every path whose recorded text differs, labeling each
// change with label ("Comment" or "ProcessingInstruction") so the
// formatted path reads e.g. "/ReleaseList/Comment".
func diffTextByPath(label string, old, new_ map[string][]string) []Change {
	var out []Change
	seen := make(map[string]bool, len(old)+len(new_))
	for path := range old {
		seen[path] = true
	}
	for path := range new_ {
		seen[path] = true
	}
	for path := range seen {
		ot, nt := old[path], new_[path]
		if equalSlices(ot, nt) {
			continue
		}
		out = append(out, Change{
			Type: TextModified,
			Path: path + "/" + label,
			Old:  fmt.Sprint(ot),
			New:  fmt.Sprint(nt),
		})
	}
	return out
}

func sortChanges(changes []Change) {
	sort.SliceStable(changes, func(i, j int) bool {
		a, b := changes[i], changes[j]
		da, db := pathDepth(a.Path), pathDepth(b.Path)
		if da != db {
			return da < db
		}
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return typeOrder[a.Type] < typeOrder[b.Type]
	})
}

func pathDepth(path string) int {
	depth := 0
	for _, r := range path {
		if r == '/' {
			depth++
		}
	}
	return depth
}

func modified(path, old, new_ string, critical bool) []Change {
	if old == new_ {
		return nil
	}
	return []Change{{Type: ElementModified, Path: path, Old: old, New: new_, Criticality: critical}}
}

func diffHeader(old, new_ model.MessageHeader) []Change {
	var out []Change
	out = append(out, modified("/MessageHeader/MessageType", string(old.Type), string(new_.Type), true)...)
	out = append(out, modified("/MessageHeader/Version", string(old.Version), string(new_.Version), true)...)
	out = append(out, modified("/MessageHeader/MessageSender/PartyName", old.Sender.Name, new_.Sender.Name, false)...)
	out = append(out, modified("/MessageHeader/MessageRecipient/PartyName", old.Recipient.Name, new_.Recipient.Name, false)...)
	return out
}

func diffParties(old, new_ []model.Party, cfg config.DiffConfig) []Change {
	oldByKey := keyedParties(old, cfg)
	newByKey := keyedParties(new_, cfg)

	var out []Change
	for key, op := range oldByKey {
		np, ok := newByKey[key]
		if !ok {
			out = append(out, Change{Type: ElementRemoved, Path: "/PartyList/Party[" + key + "]", Old: op.Name})
			continue
		}
		out = append(out, modified("/PartyList/Party["+key+"]/PartyName", op.Name, np.Name, false)...)
		out = append(out, modified("/PartyList/Party["+key+"]/Role", op.Role, np.Role, false)...)
	}
	for key, np := range newByKey {
		if _, ok := oldByKey[key]; !ok {
			out = append(out, Change{Type: ElementAdded, Path: "/PartyList/Party[" + key + "]", New: np.Name})
		}
	}
	return out
}

func keyedParties(parties []model.Party, cfg config.DiffConfig) map[string]model.Party {
	m := make(map[string]model.Party, len(parties))
	for i, p := range parties {
		if cfg.IgnoreReferenceIDs {
			m[fmt.Sprint(i)] = p
		} else {
			m[p.Reference] = p
		}
	}
	return m
}

func diffResources(old, new_ []model.Resource, cfg config.DiffConfig) []Change {
	oldByKey := keyedResources(old, cfg)
	newByKey := keyedResources(new_, cfg)

	var out []Change
	for key, or := range oldByKey {
		nr, ok := newByKey[key]
		if !ok {
			out = append(out, Change{Type: ElementRemoved, Path: "/ResourceList/Resource[" + key + "]", Old: or.Titles.Get("")})
			continue
		}
		path := "/ResourceList/Resource[" + key + "]"
		out = append(out, modified(path+"/ReferenceTitle", or.Titles.Get(""), nr.Titles.Get(""), false)...)
		out = append(out, modified(path+"/ResourceId", or.ResourceID, nr.ResourceID, or.ResourceIDType == "ISRC")...)
		out = append(out, modified(path+"/DisplayArtistName", or.DisplayArtist, nr.DisplayArtist, false)...)
		out = append(out, modified(path+"/Duration", or.Duration.Formatted, nr.Duration.Formatted, false)...)
	}
	for key, nr := range newByKey {
		if _, ok := oldByKey[key]; !ok {
			out = append(out, Change{Type: ElementAdded, Path: "/ResourceList/Resource[" + key + "]", New: nr.Titles.Get("")})
		}
	}
	return out
}

func keyedResources(resources []model.Resource, cfg config.DiffConfig) map[string]model.Resource {
	m := make(map[string]model.Resource, len(resources))
	for i, r := range resources {
		if cfg.IgnoreReferenceIDs {
			m[fmt.Sprint(i)] = r
		} else {
			m[r.ResourceReference] = r
		}
	}
	return m
}

func diffReleases(old, new_ []model.Release, cfg config.DiffConfig) []Change {
	oldByKey := keyedReleases(old)
	newByKey := keyedReleases(new_)

	var out []Change
	for key, or := range oldByKey {
		nr, ok := newByKey[key]
		if !ok {
			out = append(out, Change{Type: ElementRemoved, Path: "/ReleaseList/Release[" + key + "]", Old: or.Titles.Get("")})
			continue
		}
		path := "/ReleaseList/Release[" + key + "]"
		out = append(out, modified(path+"/ReferenceTitle", or.Titles.Get(""), nr.Titles.Get(""), false)...)
		out = append(out, modified(path+"/DisplayArtistName", or.DisplayArtist, nr.DisplayArtist, false)...)
		out = append(out, modified(path+"/Genre", or.Genre, nr.Genre, false)...)
		out = append(out, modified(path+"/ReleaseDate", formatDate(or.ReleaseDate), formatDate(nr.ReleaseDate), true)...)
		out = append(out, modified(path+"/ReleaseId", or.ReleaseID, nr.ReleaseID, true)...)
		out = append(out, diffResourceRefs(path, or.ReleaseResourceReferences, nr.ReleaseResourceReferences, cfg)...)
		out = append(out, diffTracks(path, or.Tracks, nr.Tracks)...)
	}
	for key, nr := range newByKey {
		if _, ok := oldByKey[key]; !ok {
			out = append(out, Change{Type: ElementAdded, Path: "/ReleaseList/Release[" + key + "]", New: nr.Titles.Get("")})
		}
	}
	return out
}

func keyedReleases(releases []model.Release) map[string]model.Release {
	m := make(map[string]model.Release, len(releases))
	for i, r := range releases {
		key := r.ReleaseID
		if key == "" {
			key = fmt.Sprint(i)
		}
		m[key] = r
	}
	return m
}

func diffResourceRefs(path string, old, new_ []string, cfg config.DiffConfig) []Change {
	if cfg.IgnoreOrderChanges {
		oldSet := toSet(old)
		newSet := toSet(new_)
		var out []Change
		for tok := range oldSet {
			if !newSet[tok] {
				out = append(out, Change{Type: ElementRemoved, Path: path + "/ReleaseResourceReference", Old: tok})
			}
		}
		for tok := range newSet {
			if !oldSet[tok] {
				out = append(out, Change{Type: ElementAdded, Path: path + "/ReleaseResourceReference", New: tok})
			}
		}
		return out
	}
	if equalSlices(old, new_) {
		return nil
	}
	return []Change{{Type: ElementMoved, Path: path + "/ReleaseResourceReference", Old: fmt.Sprint(old), New: fmt.Sprint(new_)}}
}

func diffTracks(path string, old, new_ []model.Track) []Change {
	var out []Change
	n := len(old)
	if len(new_) > n {
		n = len(new_)
	}
	for i := 0; i < n; i++ {
		trackPath := fmt.Sprintf("%s/Track[%d]", path, i)
		switch {
		case i >= len(old):
			out = append(out, Change{Type: ElementAdded, Path: trackPath, New: new_[i].Title})
		case i >= len(new_):
			out = append(out, Change{Type: ElementRemoved, Path: trackPath, Old: old[i].Title})
		default:
			out = append(out, modified(trackPath+"/Title", old[i].Title, new_[i].Title, false)...)
			out = append(out, modified(trackPath+"/ISRC", old[i].ISRC, new_[i].ISRC, true)...)
		}
	}
	return out
}

func diffDeals(old, new_ []model.Deal, cfg config.DiffConfig) []Change {
	oldByKey := keyedDeals(old)
	newByKey := keyedDeals(new_)

	var out []Change
	for key, od := range oldByKey {
		nd, ok := newByKey[key]
		if !ok {
			out = append(out, Change{Type: ElementRemoved, Path: "/DealList/Deal[" + key + "]", Old: od.DealID})
			continue
		}
		path := "/DealList/Deal[" + key + "]"
		out = append(out, modified(path+"/CommercialModelType", od.CommercialModelType, nd.CommercialModelType, true)...)
	}
	for key, nd := range newByKey {
		if _, ok := oldByKey[key]; !ok {
			out = append(out, Change{Type: ElementAdded, Path: "/DealList/Deal[" + key + "]", New: nd.DealID})
		}
	}
	return out
}

func keyedDeals(deals []model.Deal) map[string]model.Deal {
	m := make(map[string]model.Deal, len(deals))
	for i, d := range deals {
		key := d.DealID
		if key == "" {
			key = fmt.Sprint(i)
		}
		m[key] = d
	}
	return m
}

func toSet(vals []string) map[string]bool {
	m := make(map[string]bool, len(vals))
	for _, v := range vals {
		m[v] = true
	}
	return m
}

func equalSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
