// internal/features/admin/list-applications/handler.go
package listapplications

import (
	"context"
	"sort"
	"time"

	"membership-portal/internal/common/config"
	"membership-portal/internal/common/logger"
	applicationstore "membership-portal/internal/features/data-access/application-store"
	"membership-portal/internal/models"
	"membership-portal/pkg/registry"
)

const (
	FeatureName = "list-applications"
)

type RecordLister interface {
	List(ctx context.Context) ([]models.StoredApplication, error)
}

type Handler struct {
	config *Config
	store  RecordLister
	logger logger.Logger
}

func NewHandler(cfg *Config, store RecordLister, log logger.Logger) *Handler {
	if cfg == nil {
		cfg = LoadConfig(config.StoreConfig{})
	}
	return &Handler{
		config: cfg,
		store:  store,
		logger: log.WithFields(map[string]interface{}{"feature": FeatureName}),
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	all, err := h.All(ctx)
	if err != nil {
		return nil, err
	}

	out := &Output{
		Stats:         ComputeStats(all),
		SubmittedOnly: input.SubmittedOnly,
		Applications:  all,
	}
	if input.SubmittedOnly {
		out.Applications = FilterSubmitted(all)
	}

	h.logger.Info("listed applications", map[string]interface{}{
		"total":         out.Stats.Total,
		"returned":      len(out.Applications),
		"submittedOnly": input.SubmittedOnly,
	})
	return out, nil
}

// All reads the whole collection in listing order.
func (h *Handler) All(ctx context.Context) ([]models.StoredApplication, error) {
	ctx, cancel := context.WithTimeout(ctx, h.config.ReadTimeout)
	defer cancel()

	apps, err := h.store.List(ctx)
	if err != nil {
		h.logger.Error("failed to list applications", map[string]interface{}{"error": err.Error()})
		return nil, applicationstore.ToStandardError("", err, false)
	}
	SortBySubmittedAt(apps)
	return apps, nil
}

func ComputeStats(apps []models.StoredApplication) Stats {
	s := Stats{Total: len(apps)}
	for _, a := range apps {
		if a.Application.Submitted {
			s.Submitted++
		}
		switch a.Application.Year {
		case registry.YearSecond:
			s.SecondYear++
		case registry.YearThird:
			s.ThirdYear++
		}
	}
	return s
}

func FilterSubmitted(apps []models.StoredApplication) []models.StoredApplication {
	out := make([]models.StoredApplication, 0, len(apps))
	for _, a := range apps {
		if a.Application.Submitted {
			out = append(out, a)
		}
	}
	return out
}

// SortBySubmittedAt orders newest submissions first. Records without a
// readable submittedAt go last; ties keep their store order.
func SortBySubmittedAt(apps []models.StoredApplication) {
	sort.SliceStable(apps, func(i, j int) bool {
		ti, okI := submittedAt(apps[i])
		tj, okJ := submittedAt(apps[j])
		switch {
		case !okI:
			return false
		case !okJ:
			return true
		}
		return ti.After(tj)
	})
}

func submittedAt(a models.StoredApplication) (time.Time, bool) {
	if a.Application.SubmittedAt == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, a.Application.SubmittedAt)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
