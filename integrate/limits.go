package integrate

import (
	"fmt"
	"sort"
)

// Limit overrides the integration bounds of a region. Nil fields keep the
// region default: bounds one volt beyond the observed potential range and
// the region's own sign filter.
type Limit struct {
	Lower   *float64
	Upper   *float64
	Current *Sign
}

// Limits is a sparse set of per-region overrides.
type Limits map[Region]Limit

// LimitSpec is the configuration form of a Limit.
type LimitSpec struct {
	Lower   *float64 `yaml:"lower,omitempty" json:"lower,omitempty"`
	Upper   *float64 `yaml:"upper,omitempty" json:"upper,omitempty"`
	Current string   `yaml:"current,omitempty" json:"current,omitempty"`
}

// ParseLimits converts configuration keyed by region name. Unknown names
// and signs are configuration errors naming the offending key.
func ParseLimits(specs map[string]LimitSpec) (Limits, error) {
	if specs == nil {
		return nil, nil
	}
	names := make([]string, 0, len(specs))
	for name := range specs {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(Limits, len(specs))
	for _, name := range names {
		region, err := ParseRegion(name)
		if err != nil {
			return nil, err
		}
		spec := specs[name]
		l := Limit{Lower: spec.Lower, Upper: spec.Upper}
		if spec.Current != "" {
			sign, err := ParseSign(spec.Current)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			l.Current = &sign
		}
		out[region] = l
	}
	return out, nil
}

// Specs converts limits back to their configuration form.
func (l Limits) Specs() map[string]LimitSpec {
	out := make(map[string]LimitSpec, len(l))
	for region, limit := range l {
		spec := LimitSpec{Lower: limit.Lower, Upper: limit.Upper}
		if limit.Current != nil {
			spec.Current = limit.Current.String()
		}
		out[region.String()] = spec
	}
	return out
}

// bounds is a resolved region configuration.
type bounds struct {
	lower, upper float64
	sign         Sign
}

func (l Limits) resolve(r Region, minU, maxU float64) bounds {
	b := bounds{lower: minU - 1, upper: maxU + 1, sign: definitions[r].sign}
	limit, ok := l[r]
	if !ok {
		return b
	}
	if limit.Lower != nil {
		b.lower = *limit.Lower
	}
	if limit.Upper != nil {
		b.upper = *limit.Upper
	}
	if limit.Current != nil {
		b.sign = *limit.Current
	}
	return b
}
