package gen

import (
	"sort"

	"github.com/Masterminds/semver/v3"
)

// baselineVersion is the implicit version of fields declared without "since".
var baselineVersion = semver.MustParse("0.0.0")

type (
	// Tier is one version group of a definition's effective field list:
	// the fields introduced at exactly that version, in effective order.
	Tier struct {
		Version *semver.Version
		Fields  []*Field
	}

	// Snapshot is the cumulative field set known at a version: the
	// concatenation of all tiers up to and including its own, in
	// effective-field-list order. Each snapshot becomes one constructor or
	// factory overload whose signature takes exactly these fields, so a
	// caller compiled against an older schema keeps the signature it was
	// compiled against.
	Snapshot struct {
		Version *semver.Version
		Fields  []*Field
	}
)

// version returns the field's since version, or the baseline for undated fields.
func (f *Field) version() *semver.Version {
	if f.Since == nil {
		return baselineVersion
	}
	return f.Since
}

// Tiers partitions the effective field list by distinct since version,
// sorted ascending. Undated fields form the baseline tier, which is always
// present and always first, even when empty.
func (d *Definition) Tiers() []Tier {
	groups := map[string]*Tier{
		baselineVersion.String(): {Version: baselineVersion},
	}
	for _, f := range d.EffectiveFields {
		v := f.version()
		t, ok := groups[v.String()]
		if !ok {
			t = &Tier{Version: v}
			groups[v.String()] = t
		}
		t.Fields = append(t.Fields, f)
	}
	tiers := make([]Tier, 0, len(groups))
	for _, t := range groups {
		tiers = append(tiers, *t)
	}
	sort.Slice(tiers, func(i, j int) bool {
		return tiers[i].Version.LessThan(tiers[j].Version)
	})
	return tiers
}

// Snapshots returns the ordered sequence of cumulative field-list snapshots,
// one per tier. Fields within a snapshot keep their effective-field-list
// order, so later-version fields may sit between older ones when the schema
// declares them that way.
func (d *Definition) Snapshots() []Snapshot {
	tiers := d.Tiers()
	snapshots := make([]Snapshot, 0, len(tiers))
	for i, t := range tiers {
		included := make(map[string]struct{})
		for _, prev := range tiers[:i+1] {
			for _, f := range prev.Fields {
				included[f.Name] = struct{}{}
			}
		}
		s := Snapshot{Version: t.Version}
		for _, f := range d.EffectiveFields {
			if _, ok := included[f.Name]; ok {
				s.Fields = append(s.Fields, f)
			}
		}
		snapshots = append(snapshots, s)
	}
	return snapshots
}

// MinVersion is the minimum schema version of the definition: the lowest
// since among its growth fields, or the baseline when it has none.
func (d *Definition) MinVersion() *semver.Version {
	min := baselineVersion
	first := true
	for _, f := range d.EffectiveFields {
		if f.Since == nil {
			continue
		}
		if first || f.Since.LessThan(min) {
			min = f.Since
			first = false
		}
	}
	if first {
		return baselineVersion
	}
	return min
}

// Contains reports whether the snapshot includes the named field.
func (s Snapshot) Contains(name string) bool {
	for _, f := range s.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}
