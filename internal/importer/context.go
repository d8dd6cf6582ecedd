package importer

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jafarshop/pimsync/internal/config"
	"github.com/jafarshop/pimsync/internal/domain"
	"github.com/jafarshop/pimsync/internal/repository"
)

// RunContext is the immutable per-run snapshot every component works
// against: the attribute metadata cache, channel/locale/currency master
// data and the active scope selection. Built once, passed explicitly.
type RunContext struct {
	RunID    uuid.UUID
	Locale   string
	Channel  string
	Currency string
	Mapping  *ImportMapping

	attributes     map[string]*domain.AttributeDefinition
	channelLocales map[string][]string
	currencies     []string
}

// NewRunContext loads attribute and channel master data and snapshots it
// for the run.
func NewRunContext(ctx context.Context, cfg config.ImportConfig, mapping *ImportMapping, repos *repository.Repositories, logger *zap.Logger) (*RunContext, error) {
	attrs, err := repos.Attribute.List(ctx)
	if err != nil {
		return nil, err
	}

	byCode := make(map[string]*domain.AttributeDefinition, len(attrs))
	for _, attr := range attrs {
		byCode[attr.Code] = attr
	}

	channels, err := repos.Channel.List(ctx)
	if err != nil {
		return nil, err
	}

	channelLocales := map[string][]string{}
	var currencies []string
	seen := map[string]bool{}
	for _, ch := range channels {
		channelLocales[ch.Code] = ch.Locales
		for _, currency := range ch.Currencies {
			if !seen[currency] {
				seen[currency] = true
				currencies = append(currencies, currency)
			}
		}
	}

	logger.Info("Run context loaded",
		zap.Int("attributes", len(byCode)),
		zap.Int("channels", len(channelLocales)),
		zap.String("locale", cfg.Locale),
		zap.String("channel", cfg.Channel),
		zap.String("currency", cfg.Currency),
	)

	runID := uuid.New()
	if cfg.RunID != "" {
		parsed, err := uuid.Parse(cfg.RunID)
		if err != nil {
			return nil, fmt.Errorf("invalid IMPORT_RUN_ID: %w", err)
		}
		runID = parsed
	}

	return &RunContext{
		RunID:          runID,
		Locale:         cfg.Locale,
		Channel:        cfg.Channel,
		Currency:       cfg.Currency,
		Mapping:        mapping,
		attributes:     byCode,
		channelLocales: channelLocales,
		currencies:     currencies,
	}, nil
}

// Attribute resolves an attribute definition from the run cache. Returns
// nil for unknown codes; callers classify nil as common/unscoped.
func (rc *RunContext) Attribute(code string) *domain.AttributeDefinition {
	return rc.attributes[code]
}

// Currencies returns the currency codes across all channels
func (rc *RunContext) Currencies() []string {
	return rc.currencies
}

// LocalesForChannel returns the locale codes of one channel
func (rc *RunContext) LocalesForChannel(channel string) []string {
	return rc.channelLocales[channel]
}

var nonAlnum = regexp.MustCompile(`[^A-Za-z0-9]+`)

// AttributeCode normalizes an option axis name to an attribute code:
// lower-cased, non-alphanumeric runs collapsed to underscores.
func AttributeCode(name string) string {
	return nonAlnum.ReplaceAllString(strings.ToLower(name), "_")
}

// OptionCode normalizes an option value to an option code: lower-cased,
// non-alphanumeric runs collapsed to dashes, trimmed.
func OptionCode(value string) string {
	return strings.Trim(nonAlnum.ReplaceAllString(strings.ToLower(value), "-"), "-")
}
