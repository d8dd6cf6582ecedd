package domain

// Scope says under which axis an attribute value applies.
type Scope int

const (
	ScopeCommon Scope = iota
	ScopeChannel
	ScopeLocale
	ScopeChannelLocale
)

func (s Scope) String() string {
	switch s {
	case ScopeCommon:
		return "common"
	case ScopeChannel:
		return "channel_specific"
	case ScopeLocale:
		return "locale_specific"
	case ScopeChannelLocale:
		return "channel_locale_specific"
	default:
		return "unknown"
	}
}

// ClassifyScope maps an attribute definition to exactly one scope from the
// 2x2 truth table on (ValuePerLocale, ValuePerChannel). A nil attribute
// (no local definition) classifies as common.
func ClassifyScope(attr *AttributeDefinition) Scope {
	if attr == nil {
		return ScopeCommon
	}
	switch {
	case attr.ValuePerLocale && attr.ValuePerChannel:
		return ScopeChannelLocale
	case attr.ValuePerLocale:
		return ScopeLocale
	case attr.ValuePerChannel:
		return ScopeChannel
	default:
		return ScopeCommon
	}
}

// ScopedValueSet carries attribute values split into the four scopes.
// A given attribute code lives in exactly one of the four maps.
type ScopedValueSet struct {
	Common        map[string]any
	Channel       map[string]any
	Locale        map[string]any
	ChannelLocale map[string]any
}

// NewScopedValueSet returns an empty set with all four maps allocated
func NewScopedValueSet() ScopedValueSet {
	return ScopedValueSet{
		Common:        map[string]any{},
		Channel:       map[string]any{},
		Locale:        map[string]any{},
		ChannelLocale: map[string]any{},
	}
}

// Set places value under the scope classified from attr
func (s ScopedValueSet) Set(attr *AttributeDefinition, code string, value any) {
	switch ClassifyScope(attr) {
	case ScopeChannelLocale:
		s.ChannelLocale[code] = value
	case ScopeLocale:
		s.Locale[code] = value
	case ScopeChannel:
		s.Channel[code] = value
	default:
		s.Common[code] = value
	}
}

// Merge overlays other onto s; other's values win on key collision
func (s ScopedValueSet) Merge(other ScopedValueSet) {
	for k, v := range other.Common {
		s.Common[k] = v
	}
	for k, v := range other.Channel {
		s.Channel[k] = v
	}
	for k, v := range other.Locale {
		s.Locale[k] = v
	}
	for k, v := range other.ChannelLocale {
		s.ChannelLocale[k] = v
	}
}

// Payload renders the set in the store's write shape, nesting the scoped
// maps under the active channel and locale codes.
func (s ScopedValueSet) Payload(channel, locale string) map[string]any {
	return map[string]any{
		"common": s.Common,
		"channel_specific": map[string]any{
			channel: s.Channel,
		},
		"locale_specific": map[string]any{
			locale: s.Locale,
		},
		"channel_locale_specific": map[string]any{
			channel: map[string]any{
				locale: s.ChannelLocale,
			},
		},
	}
}
