// Package transform implements the Transformer of spec.md §4.4:
// reference resolution and denormalization from the graph view to the
// flat, consumer-facing view.
package transform

import (
	"sort"

	"ddexcore/config"
	"ddexcore/ddexerr"
	"ddexcore/model"
)

// Transform resolves graph's reference tokens against its resource
// table and produces the flat view, plus aggregate statistics.
func Transform(graph *model.Message, opts config.ParseOptions) (*model.FlatModel, *ddexerr.Error) {
	index := model.NewResourceIndex()
	for i := range graph.Resources {
		r := &graph.Resources[i]
		index.Put(r.ResourceReference, r)
	}

	if err := detectCycles(graph, index); err != nil {
		return nil, err
	}

	flat := &model.FlatModel{ResourceIndex: index}
	var totalDuration float64

	for _, rel := range graph.Releases {
		resolved := rel
		resolved.Tracks = make([]model.Track, len(rel.Tracks))
		copy(resolved.Tracks, rel.Tracks)

		for i := range resolved.Tracks {
			tr := &resolved.Tracks[i]
			res, ok := index.Get(tr.ResourceReference)
			if !ok {
				if opts.ResolveReferences {
					return nil, ddexerr.NewMissingReference(tr.ResourceReference)
				}
				continue
			}
			if tr.Title == "" {
				tr.Title = res.Titles.Get("")
			}
			if tr.DisplayArtist == "" {
				tr.DisplayArtist = res.DisplayArtist
			}
			if tr.ISRC == "" && res.ResourceIDType == "ISRC" {
				tr.ISRC = res.ResourceID
			}
			if tr.Duration.Seconds == 0 && tr.Duration.Formatted == "" {
				tr.Duration = res.Duration
			} else if d, derr := model.ParseOrDeriveDuration(tr.Duration.Seconds, tr.Duration.Formatted); derr == nil {
				tr.Duration = d
			} else {
				tr.Duration = res.Duration
			}
			totalDuration += tr.Duration.Seconds
		}

		sort.SliceStable(resolved.Tracks, func(i, j int) bool {
			return resolved.Tracks[i].Position < resolved.Tracks[j].Position
		})

		flat.Releases = append(flat.Releases, resolved)
	}

	flat.Stats = model.Stats{
		ReleaseCount:  len(flat.Releases),
		TrackCount:    countTracks(flat.Releases),
		DealCount:     len(graph.Deals),
		TotalDuration: model.NewDuration(totalDuration),
	}

	return flat, nil
}

// TransformLenient is Transform's recovering counterpart, used by the
// sanity-check operation: rather than stopping at the first dangling
// reference or reference cycle, it resolves what it can and returns
// every problem it found as a plain-text description, alongside the
// best-effort flat view built from whatever did resolve. Unlike
// Transform, it never returns a *ddexerr.Error — a release whose track
// references do not resolve is still carried into the FlatModel, with
// those tracks left as written, and each unresolved reference is listed
// among the problems.
func TransformLenient(graph *model.Message, opts config.ParseOptions) (*model.FlatModel, []string) {
	index := model.NewResourceIndex()
	for i := range graph.Resources {
		r := &graph.Resources[i]
		index.Put(r.ResourceReference, r)
	}

	var problems []string
	for _, tok := range detectCyclesAll(graph, index) {
		problems = append(problems, "reference cycle detected: "+tok)
	}

	flat := &model.FlatModel{ResourceIndex: index}
	var totalDuration float64

	for _, rel := range graph.Releases {
		resolved := rel
		resolved.Tracks = make([]model.Track, len(rel.Tracks))
		copy(resolved.Tracks, rel.Tracks)

		for i := range resolved.Tracks {
			tr := &resolved.Tracks[i]
			res, ok := index.Get(tr.ResourceReference)
			if !ok {
				problems = append(problems, "missing reference: "+tr.ResourceReference)
				continue
			}
			if tr.Title == "" {
				tr.Title = res.Titles.Get("")
			}
			if tr.DisplayArtist == "" {
				tr.DisplayArtist = res.DisplayArtist
			}
			if tr.ISRC == "" && res.ResourceIDType == "ISRC" {
				tr.ISRC = res.ResourceID
			}
			if tr.Duration.Seconds == 0 && tr.Duration.Formatted == "" {
				tr.Duration = res.Duration
			} else if d, derr := model.ParseOrDeriveDuration(tr.Duration.Seconds, tr.Duration.Formatted); derr == nil {
				tr.Duration = d
			} else {
				tr.Duration = res.Duration
			}
			totalDuration += tr.Duration.Seconds
		}

		sort.SliceStable(resolved.Tracks, func(i, j int) bool {
			return resolved.Tracks[i].Position < resolved.Tracks[j].Position
		})

		flat.Releases = append(flat.Releases, resolved)
	}

	flat.Stats = model.Stats{
		ReleaseCount:  len(flat.Releases),
		TrackCount:    countTracks(flat.Releases),
		DealCount:     len(graph.Deals),
		TotalDuration: model.NewDuration(totalDuration),
	}

	return flat, problems
}

func countTracks(releases []model.Release) int {
	n := 0
	for _, r := range releases {
		n += len(r.Tracks)
	}
	return n
}

// detectCycles walks from each release's declared resource references
// down through Resource.LinkedResourceReferences (the one place the
// reference graph can fold back on itself — a release's own resource
// list only ever points down into resources, but a resource's linked
// references, e.g. a video pointing at its cover-art image, can point
// anywhere in the resource table, including back the way it came).
// Each token is marked "on path" for the duration of its own subtree
// and cleared on the way back out, so a diamond (two releases or two
// resources sharing a link target) is never mistaken for a cycle —
// only a token revisited within its own ancestor chain is.
func detectCycles(graph *model.Message, index *model.ResourceIndex) *ddexerr.Error {
	onPath := make(map[string]bool)
	visited := make(map[string]bool)

	var walk func(tok string) *ddexerr.Error
	walk = func(tok string) *ddexerr.Error {
		if onPath[tok] {
			return ddexerr.NewCycleDetected(tok)
		}
		if visited[tok] {
			return nil
		}
		res, ok := index.Get(tok)
		if !ok {
			return nil
		}
		onPath[tok] = true
		visited[tok] = true
		for _, next := range res.LinkedResourceReferences {
			if err := walk(next); err != nil {
				return err
			}
		}
		onPath[tok] = false
		return nil
	}

	for _, rel := range graph.Releases {
		for _, tok := range rel.ReleaseResourceReferences {
			if err := walk(tok); err != nil {
				return err
			}
		}
	}
	return nil
}

// detectCyclesAll is detectCycles without the early exit: every
// cycle-entry token found across the whole graph is recorded and the
// walk continues, rather than returning at the first one.
func detectCyclesAll(graph *model.Message, index *model.ResourceIndex) []string {
	onPath := make(map[string]bool)
	visited := make(map[string]bool)
	var cycles []string

	var walk func(tok string)
	walk = func(tok string) {
		if onPath[tok] {
			cycles = append(cycles, tok)
			return
		}
		if visited[tok] {
			return
		}
		res, ok := index.Get(tok)
		if !ok {
			return
		}
		onPath[tok] = true
		visited[tok] = true
		for _, next := range res.LinkedResourceReferences {
			walk(next)
		}
		onPath[tok] = false
	}

	for _, rel := range graph.Releases {
		for _, tok := range rel.ReleaseResourceReferences {
			walk(tok)
		}
	}
	return cycles
}
